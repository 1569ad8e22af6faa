package resources

import (
	"fmt"
	"net/http"
	"time"

	"github.com/agrotech/fieldwatch/internal/alerting"
	"github.com/agrotech/fieldwatch/internal/errors"
	"github.com/agrotech/fieldwatch/internal/hubservice"
	"github.com/agrotech/fieldwatch/internal/report"
	"github.com/gorilla/mux"
	nuts "github.com/vaudience/go-nuts"
)

// MonitoringHandlers serves evaluated sector states and alerts
type MonitoringHandlers struct {
	hubservice *hubservice.HubService
	now        func() time.Time
}

// @Summary Monitor a sector
// @Description Evaluated state of one sector: status text, alert count, active sensors and readings in the window
// @Tags monitoring
// @Produce json
// @Param id path string true "Sector ID"
// @Param reducer query string false "average (default) or latest"
// @Success 200 {object} models.SectorMonitor
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /monitoring/{id} [get]
func (h *MonitoringHandlers) MonitorSector(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)

	_, reducer, apiErr := decodeEvaluationQuery(r, alerting.WindowAverage{})
	if apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	monitor, err := h.hubservice.MonitorSector(r.Context(), id, reducer)
	if err != nil {
		respondWithError(w, serviceError(err, "failed to evaluate sector", requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, monitor)
}

// @Summary Global alerts
// @Description Every sensor currently violating its sector thresholds
// @Tags monitoring
// @Produce json
// @Param reducer query string false "latest (default) or average"
// @Success 200 {object} alerting.GlobalAlerts
// @Failure 400 {object} errors.APIError
// @Router /monitoring/alerts [get]
func (h *MonitoringHandlers) GlobalAlerts(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	_, reducer, apiErr := decodeEvaluationQuery(r, alerting.LatestValue{})
	if apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	alerts, err := h.hubservice.GlobalAlerts(r.Context(), reducer)
	if err != nil {
		respondWithError(w, serviceError(err, "failed to evaluate alerts", requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, alerts)
}

// @Summary Export global alerts
// @Description Download the global alerts as a spreadsheet or a PDF
// @Tags monitoring
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce application/pdf
// @Param format query string false "xlsx (default) or pdf"
// @Param reducer query string false "latest (default) or average"
// @Success 200 {file} file
// @Failure 400 {object} errors.APIError
// @Router /monitoring/alerts/export [get]
func (h *MonitoringHandlers) ExportAlerts(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	q, reducer, apiErr := decodeEvaluationQuery(r, alerting.LatestValue{})
	if apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}
	format := q.Format
	if format == "" {
		format = report.FormatXLSX
	}
	contentType, ok := report.ContentType(format)
	if !ok {
		respondWithError(w, errors.NewValidationError(fmt.Sprintf("unsupported export format %q", format), nil).WithRequestID(requestID))
		return
	}

	alerts, err := h.hubservice.GlobalAlerts(r.Context(), reducer)
	if err != nil {
		respondWithError(w, serviceError(err, "failed to evaluate alerts", requestID))
		return
	}

	generatedAt := h.now()
	data, err := report.Render(format, alerts, generatedAt)
	if err != nil {
		respondWithError(w, serviceError(err, "failed to render report", requestID))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(format, generatedAt)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
