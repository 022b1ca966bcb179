package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mosca-iot/hub/api/middleware"
	"github.com/mosca-iot/hub/api/resources"
	_ "github.com/mosca-iot/hub/docs"
	"github.com/mosca-iot/hub/internal/hubservice"
	"go.uber.org/zap"
)

// Options carries the optional collaborators of the router.
type Options struct {
	Logger      *zap.Logger
	Metrics     middleware.RequestObserver
	CORSOrigins []string
}

type Router struct {
	router    *mux.Router
	handler   http.Handler
	resources *resources.Resources
}

func NewRouter(svc *hubservice.HubService, opts Options) *Router {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	r := &Router{
		router:    mux.NewRouter(),
		resources: resources.NewResources(svc),
	}

	r.setupRoutes(opts)
	r.handler = middleware.Recovery(opts.Logger)(middleware.CORS(opts.CORSOrigins)(r.router))
	return r
}

// Resources exposes the handlers so the server can plug in health and metrics.
func (r *Router) Resources() *resources.Resources {
	return r.resources
}

func (r *Router) setupRoutes(opts Options) {
	// API version prefix
	api := r.router.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.AccessLog(opts.Logger))
	if opts.Metrics != nil {
		api.Use(middleware.Metrics(opts.Metrics))
	}

	// Operational routes
	api.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		r.resources.HealthCheck(w, req)
	}).Methods(http.MethodGet)
	api.Handle("/metrics", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.resources.Metrics.ServeHTTP(w, req)
	})).Methods(http.MethodGet)
	api.HandleFunc("/swagger/doc.json", resources.SwaggerDoc).Methods(http.MethodGet)

	// Ingest
	api.HandleFunc("/samples", r.resources.Samples.IngestSample).Methods(http.MethodPost)

	// Incubators
	incubators := api.PathPrefix("/incubators/{id}").Subrouter()
	incubators.HandleFunc("/readings", r.resources.Samples.IngestReadings).Methods(http.MethodPost)
	incubators.HandleFunc("/thresholds", r.resources.Thresholds.GetThreshold).Methods(http.MethodGet)
	incubators.HandleFunc("/thresholds", r.resources.Thresholds.SetThreshold).Methods(http.MethodPut)
	incubators.HandleFunc("/status", r.resources.Incubators.GetStatus).Methods(http.MethodGet)
	incubators.HandleFunc("/actuators", r.resources.Incubators.GetActuators).Methods(http.MethodGet)
	incubators.HandleFunc("/aggregate", r.resources.Incubators.GetAggregate).Methods(http.MethodGet)
	incubators.HandleFunc("/alerts", r.resources.Incubators.GetAlerts).Methods(http.MethodGet)
	incubators.HandleFunc("/export.xlsx", r.resources.Incubators.ExportHistory).Methods(http.MethodGet)

	// Components
	api.HandleFunc("/components", r.resources.Components.ListComponents).Methods(http.MethodGet)
	api.HandleFunc("/components/{id}/state", r.resources.Components.SetState).Methods(http.MethodPut)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}
