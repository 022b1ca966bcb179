package resources

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mosca-iot/hub/internal/errors"
	"github.com/mosca-iot/hub/internal/hubservice"
	"github.com/mosca-iot/hub/internal/models"
	"github.com/mosca-iot/hub/internal/report"
)

// IncubatorHandlers encapsulates the incubator read-side HTTP handlers
type IncubatorHandlers struct {
	hubservice *hubservice.HubService
	now        func() time.Time
}

type aggregateQuery struct {
	Kind          string    `schema:"kind"`
	WindowStart   time.Time `schema:"windowStart"`
	WindowEnd     time.Time `schema:"windowEnd"`
	BucketMinutes int       `schema:"bucketMinutes"`
	ComponentID   int       `schema:"componentId"`
}

type windowQuery struct {
	WindowStart time.Time `schema:"windowStart"`
	WindowEnd   time.Time `schema:"windowEnd"`
	Date        string    `schema:"date"`
}

// @Summary Incubator status
// @Description Latest reading of every sensor, per-kind averages and actuator states.
// @Tags incubators
// @Produce json
// @Param id path int true "Incubator ID"
// @Success 200 {object} models.IncubatorStatus
// @Router /incubators/{id}/status [get]
func (h *IncubatorHandlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	reqID := requestID()
	incubatorID, apiErr := pathID(r, "id")
	if apiErr != nil {
		respondWithError(w, reqID, apiErr)
		return
	}

	status, err := h.hubservice.IncubatorStatus(r.Context(), incubatorID)
	if err != nil {
		respondWithError(w, reqID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, status)
}

// @Summary Actuator states
// @Description Compact fan/heater/humidifier view polled by the incubator firmware.
// @Tags incubators
// @Produce json
// @Param id path int true "Incubator ID"
// @Success 200 {object} models.ActuatorStates
// @Router /incubators/{id}/actuators [get]
func (h *IncubatorHandlers) GetActuators(w http.ResponseWriter, r *http.Request) {
	reqID := requestID()
	incubatorID, apiErr := pathID(r, "id")
	if apiErr != nil {
		respondWithError(w, reqID, apiErr)
		return
	}

	states, err := h.hubservice.ActuatorStates(r.Context(), incubatorID)
	if err != nil {
		respondWithError(w, reqID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, states)
}

// @Summary Bucketed averages
// @Description Buckets start at the first sample in the window. Empty buckets are omitted.
// @Tags incubators
// @Produce json
// @Param id path int true "Incubator ID"
// @Param kind query string true "temperature or humidity"
// @Param windowStart query string true "Window start (RFC3339)"
// @Param windowEnd query string true "Window end (RFC3339)"
// @Param bucketMinutes query int true "Bucket width in minutes"
// @Param componentId query int false "Restrict to one sensor"
// @Success 200 {array} models.AggregateBucket
// @Failure 400 {object} errors.APIError
// @Router /incubators/{id}/aggregate [get]
func (h *IncubatorHandlers) GetAggregate(w http.ResponseWriter, r *http.Request) {
	reqID := requestID()
	incubatorID, apiErr := pathID(r, "id")
	if apiErr != nil {
		respondWithError(w, reqID, apiErr)
		return
	}

	var q aggregateQuery
	if apiErr := decodeQuery(r, &q); apiErr != nil {
		respondWithError(w, reqID, apiErr)
		return
	}

	buckets, err := h.hubservice.Aggregate(r.Context(), models.AggregateQuery{
		IncubatorID:   incubatorID,
		ComponentID:   q.ComponentID,
		Kind:          models.ReadingKind(q.Kind),
		Start:         q.WindowStart,
		End:           q.WindowEnd,
		BucketMinutes: q.BucketMinutes,
	})
	if err != nil {
		respondWithError(w, reqID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, buckets)
}

// @Summary Alert history
// @Description Alerts and activations in a window, or in one UTC day when date is given. Defaults to the last 24 hours.
// @Tags incubators
// @Produce json
// @Param id path int true "Incubator ID"
// @Param windowStart query string false "Window start (RFC3339)"
// @Param windowEnd query string false "Window end (RFC3339)"
// @Param date query string false "UTC day (YYYY-MM-DD)"
// @Success 200 {object} models.AlertHistory
// @Failure 400 {object} errors.APIError
// @Router /incubators/{id}/alerts [get]
func (h *IncubatorHandlers) GetAlerts(w http.ResponseWriter, r *http.Request) {
	reqID := requestID()
	incubatorID, start, end, apiErr := h.parseWindow(r)
	if apiErr != nil {
		respondWithError(w, reqID, apiErr)
		return
	}

	history, err := h.hubservice.AlertHistory(r.Context(), incubatorID, start, end)
	if err != nil {
		respondWithError(w, reqID, err)
		return
	}
	respondWithJSON(w, http.StatusOK, history)
}

// @Summary Export history as xlsx
// @Tags incubators
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "Incubator ID"
// @Param windowStart query string false "Window start (RFC3339)"
// @Param windowEnd query string false "Window end (RFC3339)"
// @Param date query string false "UTC day (YYYY-MM-DD)"
// @Success 200 {file} file
// @Router /incubators/{id}/export.xlsx [get]
func (h *IncubatorHandlers) ExportHistory(w http.ResponseWriter, r *http.Request) {
	reqID := requestID()
	incubatorID, start, end, apiErr := h.parseWindow(r)
	if apiErr != nil {
		respondWithError(w, reqID, apiErr)
		return
	}

	history, err := h.hubservice.ExportHistory(r.Context(), incubatorID, start, end)
	if err != nil {
		respondWithError(w, reqID, err)
		return
	}
	data, err := report.BuildWorkbook(*history)
	if err != nil {
		respondWithError(w, reqID, errors.NewInternalError("failed to render workbook", err))
		return
	}

	filename := fmt.Sprintf("incubator-%d-%s.xlsx", incubatorID, start.Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *IncubatorHandlers) parseWindow(r *http.Request) (int, time.Time, time.Time, *errors.APIError) {
	incubatorID, apiErr := pathID(r, "id")
	if apiErr != nil {
		return 0, time.Time{}, time.Time{}, apiErr
	}
	var q windowQuery
	if apiErr := decodeQuery(r, &q); apiErr != nil {
		return 0, time.Time{}, time.Time{}, apiErr
	}
	start, end, apiErr := window(q.WindowStart, q.WindowEnd, q.Date, h.now())
	if apiErr != nil {
		return 0, time.Time{}, time.Time{}, apiErr
	}
	return incubatorID, start, end, nil
}
