package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mosca-iot/hub/internal/events"
	"github.com/mosca-iot/hub/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	nuts "github.com/vaudience/go-nuts"
)

// Config holds monitoring configuration
type Config struct {
	Namespace string
}

// Service owns the hub's prometheus registry and counters.
type Service struct {
	config   Config
	registry *prometheus.Registry

	events          *prometheus.CounterVec
	samplesTotal    *prometheus.CounterVec
	alertsTotal     *prometheus.CounterVec
	activations     *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewService creates a new monitoring service with its own registry.
func NewService(config Config) *Service {
	if config.Namespace == "" {
		config.Namespace = "mosca"
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)
	ns := config.Namespace

	return &Service{
		config:   config,
		registry: reg,
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "events_total",
			Help:      "Total number of recorded hub events",
		}, []string{"event"}),
		samplesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "samples_ingested_total",
			Help:      "Total number of stored sensor samples",
		}, []string{"kind"}),
		alertsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "alerts_total",
			Help:      "Total number of threshold alerts",
		}, []string{"kind", "direction"}),
		activations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "actuator_activations_total",
			Help:      "Total number of actuator off->on transitions",
		}, []string{"incubator"}),
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"route", "method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"route", "method"}),
	}
}

// RecordEvent records a monitored event
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	s.events.WithLabelValues(eventName).Inc()
	nuts.L.Infof("[Monitoring] Event %s recorded with labels: %v", eventName, labels)
}

func (s *Service) ObserveSample(sample models.Sample) {
	s.samplesTotal.WithLabelValues(string(sample.Kind)).Inc()
}

func (s *Service) ObserveAlert(alert models.AlertRecord) {
	s.alertsTotal.WithLabelValues(string(alert.Kind), string(alert.Direction)).Inc()
	s.RecordEvent(events.AlertEmitted, map[string]string{
		"incubator": strconv.Itoa(alert.IncubatorID),
		"kind":      string(alert.Kind),
	})
}

func (s *Service) ObserveActivation(rec models.ActivationRecord) {
	s.activations.WithLabelValues(strconv.Itoa(rec.IncubatorID)).Inc()
	s.RecordEvent(events.ActuatorActivated, map[string]string{
		"incubator": strconv.Itoa(rec.IncubatorID),
		"component": strconv.Itoa(rec.ComponentID),
	})
}

// ObserveRequest records one served HTTP request. route is the mux path
// template, not the raw URL, to keep label cardinality bounded.
func (s *Service) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	s.requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	s.requestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// Subscribe counts every sample, alert and activation published on bus.
func (s *Service) Subscribe(bus *events.Bus) error {
	if err := bus.OnSample("monitoring", s.ObserveSample); err != nil {
		return err
	}
	if err := bus.OnAlert("monitoring", s.ObserveAlert); err != nil {
		return err
	}
	return bus.OnActivation("monitoring", s.ObserveActivation)
}

// Handler exposes the registry in the prometheus text format.
func (s *Service) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}

func (s *Service) Registry() *prometheus.Registry {
	return s.registry
}
