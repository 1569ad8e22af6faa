package resources

import (
	"encoding/json"
	"net/http"
	"reflect"
	"time"

	"github.com/agrotech/fieldwatch/internal/alerting"
	"github.com/agrotech/fieldwatch/internal/errors"
	"github.com/agrotech/fieldwatch/internal/hubservice"
	"github.com/gorilla/schema"
	nuts "github.com/vaudience/go-nuts"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Sectors     *SectorHandlers
	Sensors     *SensorHandlers
	Readings    *ReadingHandlers
	Monitoring  *MonitoringHandlers
	HealthCheck func(w http.ResponseWriter, r *http.Request)
	Swagger     func(w http.ResponseWriter, r *http.Request)
}

// NewResources creates a new Resources instance
func NewResources(svc *hubservice.HubService) *Resources {
	return &Resources{
		Sectors:     &SectorHandlers{hubservice: svc},
		Sensors:     &SensorHandlers{hubservice: svc},
		Readings:    &ReadingHandlers{hubservice: svc},
		Monitoring:  &MonitoringHandlers{hubservice: svc, now: time.Now},
		HealthCheck: healthCheck,
		Swagger:     swaggerDoc,
	}
}

// SetHealthCheck sets the health check handler
func (r *Resources) SetHealthCheck(h func(w http.ResponseWriter, r *http.Request)) {
	r.HealthCheck = h
}

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.RegisterConverter(time.Time{}, func(value string) reflect.Value {
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return reflect.Value{}
		}
		return reflect.ValueOf(t)
	})
	return d
}

type evaluationQuery struct {
	Reducer string `schema:"reducer"`
	Format  string `schema:"format"`
}

// decodeEvaluationQuery resolves ?reducer= against the endpoint's default.
func decodeEvaluationQuery(r *http.Request, fallback alerting.SensorValueReducer) (evaluationQuery, alerting.SensorValueReducer, *errors.APIError) {
	var q evaluationQuery
	if err := queryDecoder.Decode(&q, r.URL.Query()); err != nil {
		return q, nil, errors.NewValidationError("invalid query parameters", err)
	}
	reducer, ok := alerting.ReducerByName(q.Reducer, fallback)
	if !ok {
		return q, nil, errors.NewValidationError("unknown reducer", nil).
			WithDetails(map[string]string{"reducer": q.Reducer, "supported": alerting.ReducerAverage + "," + alerting.ReducerLatest})
	}
	return q, reducer, nil
}

// serviceError keeps typed service errors and wraps anything else as internal.
func serviceError(err error, msg, requestID string) *errors.APIError {
	if apiErr, ok := errors.As(err); ok {
		return apiErr.WithRequestID(requestID)
	}
	return errors.NewInternalError(msg, err).WithRequestID(requestID)
}

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	if err.Code >= http.StatusInternalServerError {
		nuts.L.Errorf("[API] %s", err.Error())
	} else {
		nuts.L.Warnf("[API] %s", err.Error())
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
