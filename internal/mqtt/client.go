// Package mqtt connects the hub to the incubator firmware over an MQTT broker:
// readings come in on a wildcard topic, actuator state changes go out.
package mqtt

import (
	"fmt"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/mosca-iot/hub/internal/config"
	"go.uber.org/zap"
)

// MessageHandler handles one inbound message.
type MessageHandler func(topic string, payload []byte) error

// Client wraps a paho client.
type Client struct {
	client paho.Client
	config config.MQTTConfig
	logger *zap.Logger
}

// NewClient connects to the configured broker.
func NewClient(cfg config.MQTTConfig, logger *zap.Logger) (*Client, error) {
	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		logger.Warn("MQTT connection lost", zap.Error(err))
	})

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	logger.Info("Connected to MQTT broker", zap.String("broker", cfg.Broker), zap.String("client_id", cfg.ClientID))

	return &Client{client: client, config: cfg, logger: logger}, nil
}

// Subscribe registers handler for topic. Handler errors are logged and the
// message is dropped.
func (c *Client) Subscribe(topic string, qos byte, handler MessageHandler) error {
	token := c.client.Subscribe(topic, qos, func(_ paho.Client, msg paho.Message) {
		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			c.logger.Warn("Failed to handle MQTT message",
				zap.String("topic", msg.Topic()),
				zap.Int("payload_size", len(msg.Payload())),
				zap.Error(err),
			)
		}
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", topic, token.Error())
	}
	c.logger.Info("Subscribed to MQTT topic", zap.String("topic", topic), zap.Uint8("qos", qos))
	return nil
}

func (c *Client) Publish(topic string, qos byte, retained bool, payload []byte) error {
	token := c.client.Publish(topic, qos, retained, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, token.Error())
	}
	return nil
}

func (c *Client) IsConnected() bool {
	return c.client.IsConnected()
}

// Disconnect waits up to 250ms for in-flight work.
func (c *Client) Disconnect() {
	c.client.Disconnect(250)
}
