package resources

import (
	"net/http"
	"time"

	"github.com/mosca-iot/hub/internal/errors"
	"github.com/mosca-iot/hub/internal/hubservice"
	"github.com/mosca-iot/hub/internal/models"
)

// SampleHandlers encapsulates the ingest HTTP handlers
type SampleHandlers struct {
	hubservice *hubservice.HubService
}

// ReadingsRequest is the paired report of an incubator's DHT sensors.
type ReadingsRequest struct {
	Timestamp *time.Time          `json:"timestamp,omitempty"`
	Sensors   []models.SensorPair `json:"sensors"`
}

// SampleRequest is one inbound reading. Value is a pointer so a missing value
// is rejected instead of being stored as zero.
type SampleRequest struct {
	IncubatorID int                `json:"incubator_id"`
	ComponentID int                `json:"component_id"`
	Kind        models.ReadingKind `json:"kind"`
	Value       *float64           `json:"value"`
	Timestamp   *time.Time         `json:"timestamp,omitempty"`
}

// @Summary Ingest one sample
// @Description Stores the sample and evaluates it against the incubator's thresholds.
// @Tags samples
// @Accept json
// @Produce json
// @Param sample body SampleRequest true "Sensor sample"
// @Success 200 {object} models.IngestResult
// @Failure 400 {object} errors.APIError
// @Failure 503 {object} errors.APIError
// @Router /samples [post]
func (h *SampleHandlers) IngestSample(w http.ResponseWriter, r *http.Request) {
	reqID := requestID()

	var req SampleRequest
	if apiErr := decodeBody(r, &req); apiErr != nil {
		respondWithError(w, reqID, apiErr)
		return
	}
	if req.Value == nil {
		respondWithError(w, reqID, errors.NewValidationError("value is required", nil))
		return
	}

	result, err := h.hubservice.IngestSample(r.Context(), models.SampleInput{
		IncubatorID: req.IncubatorID,
		ComponentID: req.ComponentID,
		Kind:        req.Kind,
		Value:       *req.Value,
		Timestamp:   req.Timestamp,
	})
	if err != nil {
		respondWithError(w, reqID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// @Summary Ingest paired sensor readings
// @Description Every sensor reports temperature and humidity; each value is stored as its own sample.
// @Tags samples
// @Accept json
// @Produce json
// @Param id path int true "Incubator ID"
// @Param readings body ReadingsRequest true "Sensor readings"
// @Success 200 {array} models.IngestResult
// @Failure 400 {object} errors.APIError
// @Router /incubators/{id}/readings [post]
func (h *SampleHandlers) IngestReadings(w http.ResponseWriter, r *http.Request) {
	reqID := requestID()
	incubatorID, apiErr := pathID(r, "id")
	if apiErr != nil {
		respondWithError(w, reqID, apiErr)
		return
	}

	var req ReadingsRequest
	if apiErr := decodeBody(r, &req); apiErr != nil {
		respondWithError(w, reqID, apiErr)
		return
	}

	results, err := h.hubservice.IngestReadings(r.Context(), incubatorID, req.Timestamp, req.Sensors)
	if err != nil {
		respondWithError(w, reqID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, results)
}
