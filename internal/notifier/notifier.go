// Package notifier forwards alerts and actuator activations to an external
// webhook, e.g. a chat or paging integration.
package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mosca-iot/hub/internal/config"
	"github.com/mosca-iot/hub/internal/events"
	"github.com/mosca-iot/hub/internal/models"
	"go.uber.org/zap"
)

// Notification is the webhook body.
type Notification struct {
	Event       string                   `json:"event"`
	IncubatorID int                      `json:"incubator_id"`
	Alert       *models.AlertRecord      `json:"alert,omitempty"`
	Activation  *models.ActivationRecord `json:"activation,omitempty"`
	SentAt      time.Time                `json:"sent_at"`
}

// Webhook posts notifications as JSON. Delivery is best effort: failures are
// logged and never reach the code path that produced the record.
type Webhook struct {
	client  *resty.Client
	url     string
	timeout time.Duration
	logger  *zap.Logger
}

func NewWebhook(cfg config.NotifierConfig, logger *zap.Logger) *Webhook {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(200*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "mosca-hub").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})

	return &Webhook{client: client, url: cfg.WebhookURL, timeout: timeout, logger: logger}
}

// Send delivers one notification.
func (w *Webhook) Send(ctx context.Context, n Notification) error {
	if n.SentAt.IsZero() {
		n.SentAt = time.Now().UTC()
	}
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(n).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("failed to call webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}
	return nil
}

// Subscribe forwards alerts and activations published on bus. Each delivery
// runs on its own goroutine.
func (w *Webhook) Subscribe(bus *events.Bus) error {
	err := bus.OnAlert("notifier", func(alert models.AlertRecord) {
		go w.deliver(Notification{Event: events.AlertEmitted, IncubatorID: alert.IncubatorID, Alert: &alert})
	})
	if err != nil {
		return err
	}
	return bus.OnActivation("notifier", func(rec models.ActivationRecord) {
		go w.deliver(Notification{Event: events.ActuatorActivated, IncubatorID: rec.IncubatorID, Activation: &rec})
	})
}

func (w *Webhook) deliver(n Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout*2)
	defer cancel()
	if err := w.Send(ctx, n); err != nil {
		w.logger.Warn("Webhook delivery failed",
			zap.String("event", n.Event),
			zap.Int("incubator_id", n.IncubatorID),
			zap.Error(err),
		)
		return
	}
	w.logger.Debug("Webhook delivered", zap.String("event", n.Event), zap.Int("incubator_id", n.IncubatorID))
}
