package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mosca-iot/hub/api"
	"github.com/mosca-iot/hub/internal/config"
	"github.com/mosca-iot/hub/internal/hubservice"
	"github.com/mosca-iot/hub/internal/models"
	"github.com/mosca-iot/hub/internal/monitoring"
	"github.com/mosca-iot/hub/internal/mqtt"
	"github.com/mosca-iot/hub/internal/notifier"
	nuts "github.com/vaudience/go-nuts"
	"go.uber.org/zap"
)

// Server represents our HTTP server
type Server struct {
	config     *config.Config
	logger     *zap.Logger
	srv        *http.Server
	router     *api.Router
	storage    *storage
	hubservice *hubservice.HubService
	monitoring *monitoring.Service
	mqtt       *mqtt.Client
}

// New creates a new server instance
func New(cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		config: cfg,
		logger: logger,
		srv: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
}

// Build opens storage, seeds defaults and wires every side channel. It does
// not start listening.
func (s *Server) Build(ctx context.Context) error {
	st, err := openStorage(ctx, s.config)
	if err != nil {
		return err
	}
	s.storage = st

	s.hubservice = hubservice.New(st.thresholds, st.samples, st.components, st.alerts, st.activations)
	if err := s.hubservice.Validate(); err != nil {
		return err
	}
	s.hubservice.SetFallbackComponents(s.config.Defaults.Components)

	if err := s.seed(ctx); err != nil {
		return err
	}

	s.monitoring = monitoring.NewService(monitoring.Config{Namespace: s.config.Monitoring.Namespace})
	if err := s.monitoring.Subscribe(s.hubservice.Events); err != nil {
		return fmt.Errorf("failed to subscribe metrics: %w", err)
	}
	if err := s.setupEventHandlers(); err != nil {
		return err
	}

	if s.config.Notifier.Enabled {
		if err := notifier.NewWebhook(s.config.Notifier, s.logger.Named("notifier")).Subscribe(s.hubservice.Events); err != nil {
			return fmt.Errorf("failed to subscribe notifier: %w", err)
		}
		nuts.L.Infof("[Server] Webhook notifications enabled")
	}

	if s.config.MQTT.Enabled {
		if err := s.startMQTT(); err != nil {
			return err
		}
	}

	s.setupRoutes()
	return nil
}

// Handler returns the root HTTP handler. Build must have succeeded.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening for requests
func (s *Server) Start() error {
	if err := s.Build(context.Background()); err != nil {
		return err
	}
	s.srv.Handler = s.router

	// Start server
	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	s.Close()

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

// Close releases the broker connection and the stores.
func (s *Server) Close() {
	if s.mqtt != nil {
		s.mqtt.Disconnect()
	}
	if s.storage != nil {
		s.storage.close()
	}
}

func (s *Server) seed(ctx context.Context) error {
	if err := s.hubservice.EnsureComponents(ctx, s.config.Defaults.Components); err != nil {
		return fmt.Errorf("failed to provision components: %w", err)
	}
	d := s.config.Defaults.Threshold
	template := models.ThresholdConfig{
		TempMin:     d.TempMin,
		TempMax:     d.TempMax,
		HumidityMin: d.HumidityMin,
		HumidityMax: d.HumidityMax,
	}
	if err := s.hubservice.SeedThresholds(ctx, s.config.Defaults.Incubators, template); err != nil {
		return fmt.Errorf("failed to seed thresholds: %w", err)
	}
	return nil
}

func (s *Server) startMQTT() error {
	client, err := mqtt.NewClient(s.config.MQTT, s.logger.Named("mqtt"))
	if err != nil {
		return err
	}
	bridge := mqtt.NewBridge(s.hubservice, s.logger.Named("mqtt"))
	if err := client.Subscribe(s.config.MQTT.Topic, s.config.MQTT.QoS, bridge.HandleMessage); err != nil {
		client.Disconnect()
		return err
	}
	err = mqtt.AnnounceActivations(s.hubservice.Events, client, mqtt.TopicPrefix(s.config.MQTT.Topic), s.config.MQTT.QoS, s.logger.Named("mqtt"))
	if err != nil {
		client.Disconnect()
		return err
	}
	s.mqtt = client
	return nil
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	s.router = api.NewRouter(s.hubservice, api.Options{
		Logger:      s.logger.Named("http"),
		Metrics:     s.monitoring,
		CORSOrigins: s.config.Server.CORSOrigins,
	})
	s.router.Resources().SetHealthCheck(s.handleHealth())
	if s.config.Monitoring.MetricsEnabled {
		s.router.Resources().SetMetrics(s.monitoring.Handler())
	}
}

// handleHealth pings every backing store.
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status, code := "ok", http.StatusOK
		checks := s.storage.ping(ctx)
		for _, result := range checks {
			if result != "ok" {
				status, code = "degraded", http.StatusServiceUnavailable
			}
		}
		if s.mqtt != nil && !s.mqtt.IsConnected() {
			checks["mqtt"] = "disconnected"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		writeJSON(w, map[string]interface{}{
			"status":  status,
			"version": nuts.GetVersion(),
			"storage": s.config.Storage.Driver,
			"checks":  checks,
		})
	}
}

func (s *Server) setupEventHandlers() error {
	err := s.hubservice.Events.OnAlert("server", func(alert models.AlertRecord) {
		nuts.L.Warnf("[Alerts] Incubator %d %s %.2f %s %.2f (component %d)",
			alert.IncubatorID, alert.Kind, alert.Value, alert.Direction, alert.Threshold, alert.ComponentID)
	})
	if err != nil {
		return err
	}
	return s.hubservice.Events.OnActivation("server", func(rec models.ActivationRecord) {
		nuts.L.Infof("[Actuators] Component %d activated on incubator %d", rec.ComponentID, rec.IncubatorID)
	})
}
