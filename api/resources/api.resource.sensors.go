package resources

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/agrotech/fieldwatch/internal/errors"
	"github.com/agrotech/fieldwatch/internal/hubservice"
	"github.com/agrotech/fieldwatch/internal/models"
	"github.com/gorilla/mux"
	nuts "github.com/vaudience/go-nuts"
)

// SensorHandlers encapsulates the sensor-related HTTP handlers
type SensorHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary Create or update a sensor
// @Description Register a sensor in an existing sector. kind is Humedad/humidity or Temperatura/temperature.
// @Tags sensors
// @Accept json
// @Produce json
// @Param sensor body models.Sensor true "Sensor details"
// @Success 201 {object} models.Sensor
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /sensors [post]
func (h *SensorHandlers) CreateSensor(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var sensor models.Sensor
	if err := json.NewDecoder(r.Body).Decode(&sensor); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	if err := h.hubservice.SaveSensor(r.Context(), &sensor); err != nil {
		respondWithError(w, serviceError(err, "failed to save sensor", requestID))
		return
	}

	respondWithJSON(w, http.StatusCreated, sensor)
}

// @Summary List sensors
// @Description Every sensor, or those of one sector when sector_id is given
// @Tags sensors
// @Produce json
// @Param sector_id query string false "Sector ID"
// @Success 200 {array} models.Sensor
// @Failure 404 {object} errors.APIError
// @Router /sensors [get]
func (h *SensorHandlers) ListSensors(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var q sensorQuery
	if err := queryDecoder.Decode(&q, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}

	sensors, err := h.hubservice.ListSensors(r.Context(), q.SectorID)
	if err != nil {
		respondWithError(w, serviceError(err, "failed to list sensors", requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, sensors)
}

type sensorQuery struct {
	SectorID string `schema:"sector_id"`
}

// @Summary Get a sensor by ID
// @Tags sensors
// @Produce json
// @Param id path string true "Sensor ID"
// @Success 200 {object} models.Sensor
// @Failure 404 {object} errors.APIError
// @Router /sensors/{id} [get]
func (h *SensorHandlers) GetSensor(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)

	sensor, err := h.hubservice.GetSensor(r.Context(), id)
	if err != nil {
		respondWithError(w, serviceError(err, "failed to get sensor", requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, sensor)
}

// @Summary Partially update a sensor
// @Description Fields missing from the body keep their stored value. Moving the sensor to another sector requires that sector to exist.
// @Tags sensors
// @Accept json
// @Produce json
// @Param id path string true "Sensor ID"
// @Param sensor body models.Sensor true "Fields to change"
// @Success 200 {object} models.Sensor
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /sensors/{id} [patch]
func (h *SensorHandlers) PatchSensor(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)

	sensor, err := h.hubservice.GetSensor(r.Context(), id)
	if err != nil {
		respondWithError(w, serviceError(err, "failed to get sensor", requestID))
		return
	}
	if err := json.NewDecoder(r.Body).Decode(sensor); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}
	sensor.ID = id

	if err := h.hubservice.SaveSensor(r.Context(), sensor); err != nil {
		respondWithError(w, serviceError(err, "failed to save sensor", requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, sensor)
}

// @Summary Delete a sensor
// @Description Removes the sensor and its readings
// @Tags sensors
// @Param id path string true "Sensor ID"
// @Success 204
// @Failure 404 {object} errors.APIError
// @Router /sensors/{id} [delete]
func (h *SensorHandlers) DeleteSensor(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)

	if err := h.hubservice.DeleteSensor(r.Context(), id); err != nil {
		respondWithError(w, serviceError(err, "failed to delete sensor", requestID))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary Get sensor readings
// @Description Readings of one sensor between start and end, newest first
// @Tags sensors
// @Produce json
// @Param id path string true "Sensor ID"
// @Param start query string false "Start time (RFC3339), defaults to 24h ago"
// @Param end query string false "End time (RFC3339), defaults to now"
// @Success 200 {array} models.Reading
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /sensors/{id}/readings [get]
func (h *SensorHandlers) GetSensorReadings(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)

	tr, err := parseTimeRange(r, time.Now())
	if err != nil {
		respondWithError(w, errors.NewValidationError("invalid time range", err).WithRequestID(requestID))
		return
	}

	readings, err := h.hubservice.SensorReadings(r.Context(), id, tr.Start, tr.End)
	if err != nil {
		respondWithError(w, serviceError(err, "failed to get sensor readings", requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, readings)
}

type timeRange struct {
	Start time.Time `schema:"start"`
	End   time.Time `schema:"end"`
}

// parseTimeRange defaults to the 24 hours before now.
func parseTimeRange(r *http.Request, now time.Time) (timeRange, error) {
	tr := timeRange{Start: now.Add(-24 * time.Hour), End: now}
	if err := queryDecoder.Decode(&tr, r.URL.Query()); err != nil {
		return timeRange{}, err
	}
	return tr, nil
}
