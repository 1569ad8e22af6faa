package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds all configuration for the service
type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Alerts     AlertsConfig
	Retention  RetentionConfig
	Ingest     IngestConfig
	Monitoring MonitoringConfig
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// StorageConfig selects where sectors, sensors and readings live
type StorageConfig struct {
	Backend      string `mapstructure:"backend"`
	SnapshotPath string `mapstructure:"snapshot_path"`
}

type DatabaseConfig struct {
	TimescaleDB PostgresConfig `mapstructure:"timescaledb"`
	AppDB       PostgresConfig `mapstructure:"postgres_app"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Host      string        `mapstructure:"host"`
	Port      int           `mapstructure:"port"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	StatusTTL time.Duration `mapstructure:"status_ttl"`
}

// AlertsConfig drives the evaluation engine
type AlertsConfig struct {
	Window                time.Duration `mapstructure:"window"`
	FrostDetectionEnabled bool          `mapstructure:"frost_detection_enabled"`
	FrostThresholdCelsius float64       `mapstructure:"frost_threshold_celsius"`
}

type RetentionConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	MaxAge   time.Duration `mapstructure:"max_age"`
	Interval time.Duration `mapstructure:"interval"`
}

type IngestConfig struct {
	Kafka KafkaConfig `mapstructure:"kafka"`
	MQTT  MQTTConfig  `mapstructure:"mqtt"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

type MQTTConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Broker   string `mapstructure:"broker"`
	Topic    string `mapstructure:"topic"`
	ClientID string `mapstructure:"client_id"`
	QoS      byte   `mapstructure:"qos"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type MonitoringConfig struct {
	MetricsEndpoint string `mapstructure:"metrics_endpoint"`
}

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FIELDWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("storage.backend", BackendPostgres)
	v.SetDefault("storage.snapshot_path", "")

	// Database defaults
	for _, db := range []string{"timescaledb", "postgres_app"} {
		v.SetDefault("database."+db+".host", "")
		v.SetDefault("database."+db+".port", 5432)
		v.SetDefault("database."+db+".user", "")
		v.SetDefault("database."+db+".password", "")
		v.SetDefault("database."+db+".dbname", "")
		v.SetDefault("database."+db+".sslmode", "disable")
	}

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "fieldwatch")
	v.SetDefault("redis.status_ttl", "30s")

	// Alert engine defaults
	v.SetDefault("alerts.window", "24h")
	v.SetDefault("alerts.frost_detection_enabled", false)
	v.SetDefault("alerts.frost_threshold_celsius", 2.0)

	v.SetDefault("retention.enabled", false)
	v.SetDefault("retention.max_age", "720h")
	v.SetDefault("retention.interval", "1h")

	// Ingest defaults
	v.SetDefault("ingest.kafka.enabled", false)
	v.SetDefault("ingest.kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("ingest.kafka.topic", "sensor-readings")
	v.SetDefault("ingest.kafka.group_id", "fieldwatch")
	v.SetDefault("ingest.mqtt.enabled", false)
	v.SetDefault("ingest.mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("ingest.mqtt.topic", "fieldwatch/readings/#")
	v.SetDefault("ingest.mqtt.client_id", "fieldwatch-hub")
	v.SetDefault("ingest.mqtt.qos", 1)
	v.SetDefault("ingest.mqtt.username", "")
	v.SetDefault("ingest.mqtt.password", "")

	// Monitoring defaults
	v.SetDefault("monitoring.metrics_endpoint", "/v1/metrics")
}

func validateConfig(config *Config) error {
	switch config.Storage.Backend {
	case BackendPostgres:
		if config.Database.TimescaleDB.Host == "" {
			return fmt.Errorf("timescaledb host is required")
		}
		if config.Database.AppDB.Host == "" {
			return fmt.Errorf("postgres app host is required")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", config.Storage.Backend)
	}

	if config.Alerts.Window <= 0 {
		return fmt.Errorf("alerts window must be positive")
	}
	if config.Retention.Enabled {
		if config.Retention.MaxAge < config.Alerts.Window {
			return fmt.Errorf("retention max_age %s is shorter than the alert window %s", config.Retention.MaxAge, config.Alerts.Window)
		}
		if config.Retention.Interval <= 0 {
			return fmt.Errorf("retention interval must be positive")
		}
	}
	if config.Redis.Enabled && config.Redis.StatusTTL <= 0 {
		return fmt.Errorf("redis status_ttl must be positive")
	}
	if config.Ingest.Kafka.Enabled && (len(config.Ingest.Kafka.Brokers) == 0 || config.Ingest.Kafka.Topic == "") {
		return fmt.Errorf("kafka ingest needs brokers and a topic")
	}
	if config.Ingest.MQTT.Enabled && (config.Ingest.MQTT.Broker == "" || config.Ingest.MQTT.Topic == "") {
		return fmt.Errorf("mqtt ingest needs a broker and a topic")
	}
	return nil
}
