package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mosca-iot/hub/internal/models"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration for the service
type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	MQTT       MQTTConfig
	Notifier   NotifierConfig
	Monitoring MonitoringConfig
	Log        LogConfig
	Defaults   DefaultsConfig
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// StorageConfig selects the repository backend. The memory driver keeps
// everything in process and is meant for local runs and demos.
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

type DatabaseConfig struct {
	TimescaleDB PostgresConfig `mapstructure:"timescaledb"`
	AppDB       PostgresConfig `mapstructure:"postgres_app"`
}

type PostgresConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Addr returns host:port for the redis client.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type MQTTConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Broker   string `mapstructure:"broker"`
	ClientID string `mapstructure:"client_id"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Topic    string `mapstructure:"topic"`
	QoS      byte   `mapstructure:"qos"`
}

type NotifierConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	WebhookURL string        `mapstructure:"webhook_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Retries    int           `mapstructure:"retries"`
}

type MonitoringConfig struct {
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
	Namespace      string `mapstructure:"namespace"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ThresholdDefaults is the range seeded for incubators that have none.
type ThresholdDefaults struct {
	TempMin     float64 `mapstructure:"temp_min"`
	TempMax     float64 `mapstructure:"temp_max"`
	HumidityMin float64 `mapstructure:"humidity_min"`
	HumidityMax float64 `mapstructure:"humidity_max"`
}

type DefaultsConfig struct {
	Incubators []int              `mapstructure:"incubators"`
	Threshold  ThresholdDefaults  `mapstructure:"threshold"`
	Components []models.Component `mapstructure:"components"`
}

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetEnvPrefix("MOSCA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	viper.AutomaticEnv()

	setDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

// DefaultComponents is the provisioning snapshot of a single incubator: two
// DHT11 sensors and three actuators. It doubles as the fallback listing.
func DefaultComponents() []models.Component {
	return []models.Component{
		{ID: 1, IncubatorID: 1, Name: "sensorDHT11 A", Kind: models.ComponentSensor, State: true},
		{ID: 2, IncubatorID: 1, Name: "sensorDHT11 B", Kind: models.ComponentSensor, State: true},
		{ID: 3, IncubatorID: 1, Name: "humidifier", Kind: models.ComponentActuator, State: false},
		{ID: 4, IncubatorID: 1, Name: "fan", Kind: models.ComponentActuator, State: true},
		{ID: 5, IncubatorID: 1, Name: "heater", Kind: models.ComponentActuator, State: false},
	}
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.shutdown_timeout", "30s")
	viper.SetDefault("server.cors_origins", []string{"*"})

	viper.SetDefault("storage.driver", DriverPostgres)

	// Database defaults
	viper.SetDefault("database.timescaledb.host", "")
	viper.SetDefault("database.timescaledb.port", 5432)
	viper.SetDefault("database.timescaledb.sslmode", "disable")
	viper.SetDefault("database.timescaledb.max_open_conns", 10)
	viper.SetDefault("database.timescaledb.max_idle_conns", 5)
	viper.SetDefault("database.postgres_app.host", "")
	viper.SetDefault("database.postgres_app.port", 5432)
	viper.SetDefault("database.postgres_app.sslmode", "disable")
	viper.SetDefault("database.postgres_app.max_open_conns", 10)
	viper.SetDefault("database.postgres_app.max_idle_conns", 5)

	// Redis defaults
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttl", "5m")

	// MQTT defaults
	viper.SetDefault("mqtt.enabled", false)
	viper.SetDefault("mqtt.broker", "tcp://localhost:1883")
	viper.SetDefault("mqtt.client_id", "mosca-hub")
	viper.SetDefault("mqtt.topic", "mosca/incubators/+/readings")
	viper.SetDefault("mqtt.qos", 1)

	viper.SetDefault("notifier.enabled", false)
	viper.SetDefault("notifier.timeout", "5s")
	viper.SetDefault("notifier.retries", 2)

	viper.SetDefault("monitoring.metrics_enabled", true)
	viper.SetDefault("monitoring.namespace", "mosca")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")

	// Seed data for a fresh installation
	viper.SetDefault("defaults.incubators", []int{1})
	viper.SetDefault("defaults.threshold.temp_min", 27.0)
	viper.SetDefault("defaults.threshold.temp_max", 30.0)
	viper.SetDefault("defaults.threshold.humidity_min", 70.0)
	viper.SetDefault("defaults.threshold.humidity_max", 90.0)
}

func validateConfig(config *Config) error {
	switch config.Storage.Driver {
	case DriverPostgres:
		if config.Database.TimescaleDB.Host == "" {
			return fmt.Errorf("timescaledb host is required")
		}
		if config.Database.AppDB.Host == "" {
			return fmt.Errorf("postgres app host is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}
	if config.MQTT.Enabled && config.MQTT.Broker == "" {
		return fmt.Errorf("mqtt broker is required when mqtt is enabled")
	}
	if config.Notifier.Enabled && config.Notifier.WebhookURL == "" {
		return fmt.Errorf("notifier webhook_url is required when the notifier is enabled")
	}
	if err := validateThresholdDefaults(config.Defaults.Threshold); err != nil {
		return err
	}
	if len(config.Defaults.Components) == 0 {
		config.Defaults.Components = DefaultComponents()
	}
	return nil
}

func validateThresholdDefaults(t ThresholdDefaults) error {
	for _, v := range []float64{t.TempMin, t.TempMax, t.HumidityMin, t.HumidityMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("default thresholds must be finite")
		}
	}
	if t.TempMin >= t.TempMax {
		return fmt.Errorf("default temp_min must be below temp_max")
	}
	if t.HumidityMin >= t.HumidityMax {
		return fmt.Errorf("default humidity_min must be below humidity_max")
	}
	return nil
}
