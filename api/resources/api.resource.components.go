package resources

import (
	"net/http"
	"time"

	"github.com/mosca-iot/hub/internal/errors"
	"github.com/mosca-iot/hub/internal/hubservice"
)

// ComponentHandlers encapsulates the component and actuator HTTP handlers
type ComponentHandlers struct {
	hubservice *hubservice.HubService
}

// StateRequest switches an actuator. IncubatorID and OccurredAt are optional.
type StateRequest struct {
	State       *bool      `json:"state"`
	IncubatorID int        `json:"incubator_id,omitempty"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
}

type componentQuery struct {
	IncubatorID int `schema:"incubatorId"`
}

// @Summary Set an actuator state
// @Description Switching an actuator from off to on logs one activation. Repeated "on" requests are idempotent.
// @Tags components
// @Accept json
// @Produce json
// @Param id path int true "Component ID"
// @Param state body StateRequest true "Desired state"
// @Success 200 {object} models.ActuatorAck
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Failure 503 {object} errors.APIError
// @Router /components/{id}/state [put]
func (h *ComponentHandlers) SetState(w http.ResponseWriter, r *http.Request) {
	reqID := requestID()
	componentID, apiErr := pathID(r, "id")
	if apiErr != nil {
		respondWithError(w, reqID, apiErr)
		return
	}

	var req StateRequest
	if apiErr := decodeBody(r, &req); apiErr != nil {
		respondWithError(w, reqID, apiErr)
		return
	}
	if req.State == nil {
		respondWithError(w, reqID, errors.NewValidationError("state is required", nil))
		return
	}

	ack, err := h.hubservice.SetActuatorState(r.Context(), componentID, req.IncubatorID, *req.State, req.OccurredAt)
	if err != nil {
		respondWithError(w, reqID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, ack)
}

// @Summary List components
// @Description Falls back to the provisioning snapshot (degraded=true) when the store is unreachable.
// @Tags components
// @Produce json
// @Param incubatorId query int false "Incubator ID, all when omitted"
// @Success 200 {object} models.ComponentList
// @Router /components [get]
func (h *ComponentHandlers) ListComponents(w http.ResponseWriter, r *http.Request) {
	reqID := requestID()

	var q componentQuery
	if apiErr := decodeQuery(r, &q); apiErr != nil {
		respondWithError(w, reqID, apiErr)
		return
	}
	if q.IncubatorID < 0 {
		respondWithError(w, reqID, errors.NewValidationError("incubatorId must not be negative", nil))
		return
	}

	list, err := h.hubservice.ListComponents(r.Context(), q.IncubatorID)
	if err != nil {
		respondWithError(w, reqID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}
