package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_RecordEvent(t *testing.T) {
	s := NewService()
	before := testutil.ToFloat64(EventsTotal.WithLabelValues("readings_pruned"))

	s.RecordEvent("readings_pruned", map[string]string{"count": "3"})

	assert.Equal(t, before+1, testutil.ToFloat64(EventsTotal.WithLabelValues("readings_pruned")))
}

func TestService_ObserveEvaluation(t *testing.T) {
	s := NewService()
	before := testutil.ToFloat64(EvaluationsTotal.WithLabelValues("global", "latest"))

	s.ObserveEvaluation("global", "latest", 3*time.Millisecond, 4)

	assert.Equal(t, before+1, testutil.ToFloat64(EvaluationsTotal.WithLabelValues("global", "latest")))
	assert.Equal(t, 4.0, testutil.ToFloat64(ActiveAlerts.WithLabelValues("global")))
}

func TestService_RecordIngest(t *testing.T) {
	s := NewService()
	accepted := testutil.ToFloat64(ReadingsIngested.WithLabelValues("mqtt", "accepted"))
	rejected := testutil.ToFloat64(ReadingsIngested.WithLabelValues("mqtt", "rejected"))

	s.RecordIngest("mqtt", true)
	s.RecordIngest("mqtt", false)

	assert.Equal(t, accepted+1, testutil.ToFloat64(ReadingsIngested.WithLabelValues("mqtt", "accepted")))
	assert.Equal(t, rejected+1, testutil.ToFloat64(ReadingsIngested.WithLabelValues("mqtt", "rejected")))
}

func TestService_MiddlewareUsesRouteTemplate(t *testing.T) {
	s := NewService()
	router := mux.NewRouter()
	router.Use(s.Middleware)
	router.HandleFunc("/v1/monitoring/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	counter := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/v1/monitoring/{id}", "404")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/monitoring/sec42", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestService_HandlerExposesMetrics(t *testing.T) {
	s := NewService()
	s.RecordEvent("startup", nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "fieldwatch_events_total"))
}
