package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mosca-iot/hub/internal/events"
	"github.com/mosca-iot/hub/internal/models"
	"go.uber.org/zap"
)

// ReadingService is the part of the hub service the bridge feeds.
type ReadingService interface {
	IngestSample(ctx context.Context, in models.SampleInput) (*models.IngestResult, error)
	IngestReadings(ctx context.Context, incubatorID int, ts *time.Time, pairs []models.SensorPair) ([]models.IngestResult, error)
}

// Publisher is satisfied by *Client.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// readingMessage accepts either a single sample or a batch of sensor pairs.
type readingMessage struct {
	ComponentID int                 `json:"component_id"`
	Kind        models.ReadingKind  `json:"kind"`
	Value       *float64            `json:"value"`
	Timestamp   *time.Time          `json:"timestamp"`
	Sensors     []models.SensorPair `json:"sensors"`
}

// Bridge turns MQTT reading messages into ingest calls and announces actuator
// activations back to the firmware.
type Bridge struct {
	service ReadingService
	logger  *zap.Logger
	timeout time.Duration
}

func NewBridge(service ReadingService, logger *zap.Logger) *Bridge {
	return &Bridge{service: service, logger: logger, timeout: 10 * time.Second}
}

// HandleMessage ingests one payload published on
// <prefix>/incubators/<id>/readings.
func (b *Bridge) HandleMessage(topic string, payload []byte) error {
	incubatorID, err := IncubatorFromTopic(topic)
	if err != nil {
		return err
	}

	var msg readingMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("invalid reading payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	if len(msg.Sensors) > 0 {
		for _, p := range msg.Sensors {
			if field := p.Missing(); field != "" {
				return fmt.Errorf("sensor %d in incubator %d reading lacks %s", p.ComponentID, incubatorID, field)
			}
		}
		results, err := b.service.IngestReadings(ctx, incubatorID, msg.Timestamp, msg.Sensors)
		if err != nil {
			return fmt.Errorf("failed to ingest readings for incubator %d: %w", incubatorID, err)
		}
		b.logger.Debug("Ingested MQTT readings",
			zap.Int("incubator_id", incubatorID),
			zap.Int("samples", len(results)),
		)
		return nil
	}

	if msg.Value == nil {
		return fmt.Errorf("reading payload has neither value nor sensors")
	}
	res, err := b.service.IngestSample(ctx, models.SampleInput{
		IncubatorID: incubatorID,
		ComponentID: msg.ComponentID,
		Kind:        msg.Kind,
		Value:       *msg.Value,
		Timestamp:   msg.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to ingest sample for incubator %d: %w", incubatorID, err)
	}
	if res.Alert != nil {
		b.logger.Info("MQTT sample out of range",
			zap.Int("incubator_id", incubatorID),
			zap.String("kind", string(res.Alert.Kind)),
			zap.String("direction", string(res.Alert.Direction)),
		)
	}
	return nil
}

// IncubatorFromTopic extracts the id that follows the "incubators" segment.
func IncubatorFromTopic(topic string) (int, error) {
	parts := strings.Split(topic, "/")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] != "incubators" {
			continue
		}
		id, err := strconv.Atoi(parts[i+1])
		if err != nil || id <= 0 {
			return 0, fmt.Errorf("invalid incubator id in topic %q", topic)
		}
		return id, nil
	}
	return 0, fmt.Errorf("topic %q has no incubator segment", topic)
}

// ActuatorTopic is where state changes for an incubator are announced.
func ActuatorTopic(prefix string, incubatorID int) string {
	return fmt.Sprintf("%s/incubators/%d/actuators", prefix, incubatorID)
}

// AnnounceActivations publishes every activation on bus to the incubator's
// actuator topic.
func AnnounceActivations(bus *events.Bus, pub Publisher, prefix string, qos byte, logger *zap.Logger) error {
	return bus.OnActivation("mqtt", func(rec models.ActivationRecord) {
		payload, err := json.Marshal(rec)
		if err != nil {
			logger.Error("Failed to encode activation", zap.Error(err))
			return
		}
		if err := pub.Publish(ActuatorTopic(prefix, rec.IncubatorID), qos, false, payload); err != nil {
			logger.Warn("Failed to announce activation",
				zap.Int("component_id", rec.ComponentID),
				zap.Error(err),
			)
		}
	})
}

// TopicPrefix returns the part of a subscription topic before "/incubators".
func TopicPrefix(topic string) string {
	if i := strings.Index(topic, "/incubators"); i >= 0 {
		return topic[:i]
	}
	return strings.TrimSuffix(topic, "/")
}
