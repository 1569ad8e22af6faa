package resources

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/agrotech/fieldwatch/internal/errors"
	"github.com/agrotech/fieldwatch/internal/hubservice"
	"github.com/agrotech/fieldwatch/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

const (
	sourceHTTP   = "http"
	maxBodyBytes = 4 << 20
)

// ReadingHandlers accepts readings pushed by gateways over HTTP
type ReadingHandlers struct {
	hubservice *hubservice.HubService
}

type RejectedReading struct {
	Index    int    `json:"index"`
	SensorID string `json:"sensor_id"`
	Error    string `json:"error"`
}

type BatchResult struct {
	Accepted int               `json:"accepted"`
	Rejected []RejectedReading `json:"rejected"`
}

// @Summary Record sensor readings
// @Description Record one reading or an array of readings. A single reading answers with the stored reading; an array answers with a per-item result.
// @Tags readings
// @Accept json
// @Produce json
// @Param readings body []models.Reading true "Reading or array of readings"
// @Success 201 {object} BatchResult
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /readings [post]
func (h *ReadingHandlers) RecordReadings(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		respondWithError(w, errors.NewValidationError("failed to read request body", err).WithRequestID(requestID))
		return
	}
	body = bytes.TrimSpace(body)

	if len(body) > 0 && body[0] == '[' {
		var readings []models.Reading
		if err := json.Unmarshal(body, &readings); err != nil {
			respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
			return
		}
		respondWithJSON(w, http.StatusCreated, h.recordBatch(r, readings))
		return
	}

	var reading models.Reading
	if err := json.Unmarshal(body, &reading); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}
	if err := h.hubservice.RecordReading(r.Context(), sourceHTTP, &reading); err != nil {
		respondWithError(w, serviceError(err, "failed to record reading", requestID))
		return
	}

	respondWithJSON(w, http.StatusCreated, reading)
}

func (h *ReadingHandlers) recordBatch(r *http.Request, readings []models.Reading) BatchResult {
	result := BatchResult{Rejected: []RejectedReading{}}
	for i := range readings {
		if err := h.hubservice.RecordReading(r.Context(), sourceHTTP, &readings[i]); err != nil {
			nuts.L.Warnf("[ReadingHandler] Failed to record reading for sensor %s: %v", readings[i].SensorID, err)
			msg := err.Error()
			if apiErr, ok := errors.As(err); ok {
				msg = apiErr.Message
			}
			result.Rejected = append(result.Rejected, RejectedReading{Index: i, SensorID: readings[i].SensorID, Error: msg})
			continue
		}
		result.Accepted++
	}
	return result
}
