package resources

import (
	"encoding/json"
	"net/http"

	"github.com/agrotech/fieldwatch/internal/alerting"
	"github.com/agrotech/fieldwatch/internal/errors"
	"github.com/agrotech/fieldwatch/internal/hubservice"
	"github.com/agrotech/fieldwatch/internal/models"
	"github.com/gorilla/mux"
	nuts "github.com/vaudience/go-nuts"
)

// SectorHandlers encapsulates the sector-related HTTP handlers
type SectorHandlers struct {
	hubservice *hubservice.HubService
}

// @Summary Create or update a sector
// @Description Store a sector with its humidity and temperature thresholds. temp_max defaults to 40.
// @Tags sectors
// @Accept json
// @Produce json
// @Param sector body models.Sector true "Sector details"
// @Success 201 {object} models.Sector
// @Failure 400 {object} errors.APIError
// @Router /sectors [post]
func (h *SectorHandlers) CreateSector(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	sector := models.Sector{TempMax: models.DefaultTempMax}

	if err := json.NewDecoder(r.Body).Decode(&sector); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	if err := h.hubservice.SaveSector(r.Context(), &sector); err != nil {
		respondWithError(w, serviceError(err, "failed to save sector", requestID))
		return
	}

	respondWithJSON(w, http.StatusCreated, sector)
}

// @Summary Get a sector by ID
// @Tags sectors
// @Produce json
// @Param id path string true "Sector ID"
// @Success 200 {object} models.Sector
// @Failure 404 {object} errors.APIError
// @Router /sectors/{id} [get]
func (h *SectorHandlers) GetSector(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)

	sector, err := h.hubservice.GetSector(r.Context(), id)
	if err != nil {
		respondWithError(w, serviceError(err, "failed to get sector", requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, sector)
}

// @Summary Partially update a sector
// @Description Fields missing from the body keep their stored value
// @Tags sectors
// @Accept json
// @Produce json
// @Param id path string true "Sector ID"
// @Param sector body models.Sector true "Fields to change"
// @Success 200 {object} models.Sector
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /sectors/{id} [patch]
func (h *SectorHandlers) PatchSector(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)

	sector, err := h.hubservice.GetSector(r.Context(), id)
	if err != nil {
		respondWithError(w, serviceError(err, "failed to get sector", requestID))
		return
	}
	if err := json.NewDecoder(r.Body).Decode(sector); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}
	sector.ID = id

	if err := h.hubservice.SaveSector(r.Context(), sector); err != nil {
		respondWithError(w, serviceError(err, "failed to save sector", requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, sector)
}

// @Summary Delete a sector
// @Description Removes the sector with its sensors and their readings
// @Tags sectors
// @Param id path string true "Sector ID"
// @Success 204
// @Failure 404 {object} errors.APIError
// @Router /sectors/{id} [delete]
func (h *SectorHandlers) DeleteSector(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	requestID := nuts.NID("req", 12)

	if err := h.hubservice.DeleteSector(r.Context(), id); err != nil {
		respondWithError(w, serviceError(err, "failed to delete sector", requestID))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary List sectors with their status
// @Description Every sector with its sensors and the evaluated status ("OK" or "CRÍTICO - ...")
// @Tags sectors
// @Produce json
// @Param reducer query string false "average (default) or latest"
// @Success 200 {array} models.SectorOverview
// @Failure 400 {object} errors.APIError
// @Router /sectors [get]
func (h *SectorHandlers) ListSectors(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	_, reducer, apiErr := decodeEvaluationQuery(r, alerting.WindowAverage{})
	if apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	overviews, err := h.hubservice.ListSectorStatuses(r.Context(), reducer)
	if err != nil {
		respondWithError(w, serviceError(err, "failed to list sectors", requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, overviews)
}
