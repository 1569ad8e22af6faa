package api

import (
	"net/http"

	"github.com/agrotech/fieldwatch/api/resources"
	"github.com/agrotech/fieldwatch/internal/hubservice"
	"github.com/gorilla/mux"
)

// Metrics instruments every /v1 request
type Metrics interface {
	Middleware(next http.Handler) http.Handler
}

type Router struct {
	router    *mux.Router
	metrics   Metrics
	resources *resources.Resources
}

// NewRouter wires the /v1 routes. metrics may be nil.
func NewRouter(svc *hubservice.HubService, metrics Metrics) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		metrics:   metrics,
		resources: resources.NewResources(svc),
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	// API version prefix
	api := r.router.PathPrefix("/v1").Subrouter()
	if r.metrics != nil {
		api.Use(r.metrics.Middleware)
	}

	api.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		r.resources.HealthCheck(w, req)
	}).Methods(http.MethodGet)
	api.HandleFunc("/swagger.json", r.resources.Swagger).Methods(http.MethodGet)

	// Sectors
	sectors := api.PathPrefix("/sectors").Subrouter()
	sectors.HandleFunc("", r.resources.Sectors.ListSectors).Methods(http.MethodGet)
	sectors.HandleFunc("", r.resources.Sectors.CreateSector).Methods(http.MethodPost)
	sectors.HandleFunc("/{id}", r.resources.Sectors.GetSector).Methods(http.MethodGet)
	sectors.HandleFunc("/{id}", r.resources.Sectors.PatchSector).Methods(http.MethodPatch)
	sectors.HandleFunc("/{id}", r.resources.Sectors.DeleteSector).Methods(http.MethodDelete)

	// Sensors
	sensors := api.PathPrefix("/sensors").Subrouter()
	sensors.HandleFunc("", r.resources.Sensors.ListSensors).Methods(http.MethodGet)
	sensors.HandleFunc("", r.resources.Sensors.CreateSensor).Methods(http.MethodPost)
	sensors.HandleFunc("/{id}", r.resources.Sensors.GetSensor).Methods(http.MethodGet)
	sensors.HandleFunc("/{id}", r.resources.Sensors.PatchSensor).Methods(http.MethodPatch)
	sensors.HandleFunc("/{id}", r.resources.Sensors.DeleteSensor).Methods(http.MethodDelete)
	sensors.HandleFunc("/{id}/readings", r.resources.Sensors.GetSensorReadings).Methods(http.MethodGet)

	api.HandleFunc("/readings", r.resources.Readings.RecordReadings).Methods(http.MethodPost)

	// Monitoring; the static alert routes must precede /{id}
	monitoring := api.PathPrefix("/monitoring").Subrouter()
	monitoring.HandleFunc("/alerts", r.resources.Monitoring.GlobalAlerts).Methods(http.MethodGet)
	monitoring.HandleFunc("/alerts/export", r.resources.Monitoring.ExportAlerts).Methods(http.MethodGet)
	monitoring.HandleFunc("/{id}", r.resources.Monitoring.MonitorSector).Methods(http.MethodGet)
}

// Resources exposes the handlers so the server can replace the health check.
func (r *Router) Resources() *resources.Resources {
	return r.resources
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
