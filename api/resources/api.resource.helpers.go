package resources

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/mosca-iot/hub/internal/errors"
	"github.com/mosca-iot/hub/internal/hubservice"
	nuts "github.com/vaudience/go-nuts"
)

const dateLayout = "2006-01-02"

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.RegisterConverter(time.Time{}, func(value string) reflect.Value {
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return reflect.Value{}
		}
		return reflect.ValueOf(t.UTC())
	})
	return d
}

func decodeQuery(r *http.Request, dst interface{}) *errors.APIError {
	if err := queryDecoder.Decode(dst, r.URL.Query()); err != nil {
		return errors.NewValidationError("invalid query parameters", err).
			WithDetails(map[string]string{"query": err.Error()})
	}
	return nil
}

func decodeBody(r *http.Request, dst interface{}) *errors.APIError {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.NewValidationError("invalid request body", err)
	}
	return nil
}

// pathID reads a positive integer path variable.
func pathID(r *http.Request, name string) (int, *errors.APIError) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError(name+" must be a positive integer", err)
	}
	return id, nil
}

// window resolves an explicit [start, end] or, when date is set, that UTC day.
// Without either it defaults to the last 24 hours.
func window(start, end time.Time, date string, now time.Time) (time.Time, time.Time, *errors.APIError) {
	if date != "" {
		day, err := time.Parse(dateLayout, date)
		if err != nil {
			return time.Time{}, time.Time{}, errors.NewValidationError("date must be YYYY-MM-DD", err)
		}
		s, e := hubservice.DayWindow(day)
		return s, e, nil
	}
	if end.IsZero() {
		end = now.UTC()
	}
	if start.IsZero() {
		start = end.Add(-24 * time.Hour)
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, errors.NewValidationError("windowStart must not be after windowEnd", nil)
	}
	return start, end, nil
}

// respondWithError renders err as an APIError tagged with the request id.
func respondWithError(w http.ResponseWriter, requestID string, err error) {
	apiErr := errors.AsAPIError(err).WithRequestID(requestID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Code)
	json.NewEncoder(w).Encode(apiErr)
	if apiErr.Code >= http.StatusInternalServerError {
		nuts.L.Errorf("[API] %s", apiErr.Error())
	} else {
		nuts.L.Warnf("[API] %s", apiErr.Error())
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func requestID() string {
	return nuts.NID("req", 12)
}
