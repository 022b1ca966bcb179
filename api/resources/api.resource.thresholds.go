package resources

import (
	"net/http"

	"github.com/mosca-iot/hub/internal/errors"
	"github.com/mosca-iot/hub/internal/hubservice"
)

// ThresholdHandlers encapsulates the threshold-related HTTP handlers
type ThresholdHandlers struct {
	hubservice *hubservice.HubService
}

// ThresholdRequest carries the four bounds. Pointers tell a missing bound from zero.
type ThresholdRequest struct {
	TempMin     *float64 `json:"temp_min"`
	TempMax     *float64 `json:"temp_max"`
	HumidityMin *float64 `json:"humidity_min"`
	HumidityMax *float64 `json:"humidity_max"`
}

// @Summary Get the threshold config of an incubator
// @Tags thresholds
// @Produce json
// @Param id path int true "Incubator ID"
// @Success 200 {object} models.ThresholdConfig
// @Failure 404 {object} errors.APIError
// @Router /incubators/{id}/thresholds [get]
func (h *ThresholdHandlers) GetThreshold(w http.ResponseWriter, r *http.Request) {
	reqID := requestID()
	incubatorID, apiErr := pathID(r, "id")
	if apiErr != nil {
		respondWithError(w, reqID, apiErr)
		return
	}

	cfg, err := h.hubservice.GetThreshold(r.Context(), incubatorID)
	if err != nil {
		respondWithError(w, reqID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, cfg)
}

// @Summary Replace the threshold config of an incubator
// @Description Min must be lower than max for both ranges; an invalid range leaves the stored config untouched.
// @Tags thresholds
// @Accept json
// @Produce json
// @Param id path int true "Incubator ID"
// @Param thresholds body ThresholdRequest true "Temperature and humidity ranges"
// @Success 200 {object} models.ThresholdConfig
// @Failure 400 {object} errors.APIError
// @Failure 503 {object} errors.APIError
// @Router /incubators/{id}/thresholds [put]
func (h *ThresholdHandlers) SetThreshold(w http.ResponseWriter, r *http.Request) {
	reqID := requestID()
	incubatorID, apiErr := pathID(r, "id")
	if apiErr != nil {
		respondWithError(w, reqID, apiErr)
		return
	}

	var req ThresholdRequest
	if apiErr := decodeBody(r, &req); apiErr != nil {
		respondWithError(w, reqID, apiErr)
		return
	}
	if req.TempMin == nil || req.TempMax == nil || req.HumidityMin == nil || req.HumidityMax == nil {
		respondWithError(w, reqID, errors.NewValidationError("temp_min, temp_max, humidity_min and humidity_max are required", nil))
		return
	}

	cfg, err := h.hubservice.SetThreshold(r.Context(), incubatorID, *req.TempMin, *req.TempMax, *req.HumidityMin, *req.HumidityMax)
	if err != nil {
		respondWithError(w, reqID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, cfg)
}
