package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	nuts "github.com/vaudience/go-nuts"
)

var (
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fieldwatch_events_total",
			Help: "Total number of lifecycle events recorded",
		},
		[]string{"event"},
	)

	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fieldwatch_evaluations_total",
			Help: "Total number of alert evaluations",
		},
		[]string{"scope", "reducer"},
	)

	EvaluationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fieldwatch_evaluation_duration_seconds",
			Help:    "Time spent fetching and evaluating readings",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"scope"},
	)

	ActiveAlerts = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fieldwatch_active_alerts",
			Help: "Alerts found by the most recent evaluation",
		},
		[]string{"scope"},
	)

	ReadingsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fieldwatch_readings_ingested_total",
			Help: "Total number of readings received",
		},
		[]string{"source", "status"}, // status: accepted, rejected
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fieldwatch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
)

// Service provides monitoring functionality
type Service struct{}

// NewService creates a new monitoring service
func NewService() *Service {
	return &Service{}
}

// RecordEvent records a monitored event with labels
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	EventsTotal.WithLabelValues(eventName).Inc()
	nuts.L.Infof("[Monitoring] Event %s recorded with labels: %v", eventName, labels)
}

// ObserveEvaluation records one engine run.
func (s *Service) ObserveEvaluation(scope, reducer string, took time.Duration, alerts int) {
	EvaluationsTotal.WithLabelValues(scope, reducer).Inc()
	EvaluationDuration.WithLabelValues(scope).Observe(took.Seconds())
	ActiveAlerts.WithLabelValues(scope).Set(float64(alerts))
}

func (s *Service) RecordIngest(source string, accepted bool) {
	status := "accepted"
	if !accepted {
		status = "rejected"
	}
	ReadingsIngested.WithLabelValues(source, status).Inc()
}

// Handler exposes the default registry.
func (s *Service) Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware counts requests per mux route template.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
