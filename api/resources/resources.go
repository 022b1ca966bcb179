package resources

import (
	"net/http"
	"time"

	"github.com/mosca-iot/hub/internal/hubservice"
	"github.com/swaggo/swag"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Thresholds  *ThresholdHandlers
	Samples     *SampleHandlers
	Components  *ComponentHandlers
	Incubators  *IncubatorHandlers
	HealthCheck func(w http.ResponseWriter, r *http.Request)
	Metrics     http.Handler
}

// NewResources creates a new Resources instance
func NewResources(svc *hubservice.HubService) *Resources {
	return &Resources{
		Thresholds:  &ThresholdHandlers{hubservice: svc},
		Samples:     &SampleHandlers{hubservice: svc},
		Components:  &ComponentHandlers{hubservice: svc},
		Incubators:  &IncubatorHandlers{hubservice: svc, now: time.Now},
		HealthCheck: defaultHealthCheck,
		Metrics:     http.NotFoundHandler(),
	}
}

// SetHealthCheck sets the health check handler
func (r *Resources) SetHealthCheck(h func(w http.ResponseWriter, r *http.Request)) {
	r.HealthCheck = h
}

// SetMetrics sets the metrics handler
func (r *Resources) SetMetrics(h http.Handler) {
	r.Metrics = h
}

func defaultHealthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// SwaggerDoc serves the generated OpenAPI document.
func SwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		respondWithError(w, requestID(), err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}
