package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Notifier kinds accepted in CROWDSRC_NOTIFIER.
const (
	NotifierNoop       = "noop"
	NotifierCollecting = "collecting"
	NotifierSES        = "ses"
	NotifierKafka      = "kafka"
	NotifierRedis      = "redis"
)

// Config is the full process configuration, read from CROWDSRC_* variables.
type Config struct {
	Server   Server
	Database DatabaseConfig
	Log      LogConfig
	Notify   NotifyConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	SES      SESConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	CORSOrigins     []string      `envconfig:"CORS_ORIGINS" default:"*"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// DatabaseConfig selects and tunes the user store.
type DatabaseConfig struct {
	Store           string        `envconfig:"STORE" default:"postgres"`
	URL             string        `envconfig:"DATABASE_URL"`
	Migrate         bool          `envconfig:"MIGRATE" default:"true"`
	TxTimeout       time.Duration `envconfig:"TX_TIMEOUT" default:"5s"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// NotifyConfig controls which notifiers receive user-created events.
type NotifyConfig struct {
	Kinds       []string      `envconfig:"NOTIFIER" default:"noop"`
	Timeout     time.Duration `envconfig:"NOTIFY_TIMEOUT" default:"5s"`
	MaxInFlight int64         `envconfig:"NOTIFY_MAX_IN_FLIGHT" default:"64"`
}

// RedisConfig configures the redis notifier connection.
type RedisConfig struct {
	URL          string        `envconfig:"REDIS_URL"`
	Channel      string        `envconfig:"REDIS_CHANNEL" default:"crowdsrc:users:created"`
	PoolSize     int           `envconfig:"REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"REDIS_WRITE_TIMEOUT" default:"3s"`
}

// KafkaConfig configures the kafka notifier producer.
type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS"`
	Topic   string   `envconfig:"KAFKA_TOPIC" default:"crowdsrc.users.created"`
	// Partitions is used only when the topic has to be created.
	Partitions int32 `envconfig:"KAFKA_PARTITIONS" default:"1"`
}

// SESConfig configures the welcome e-mail sender.
type SESConfig struct {
	Region    string `envconfig:"SES_REGION" default:"us-east-1"`
	AccessKey string `envconfig:"SES_ACCESS_KEY"`
	SecretKey string `envconfig:"SES_SECRET_KEY"`
	From      string `envconfig:"SES_FROM"`
}

// Prefix is the environment variable prefix for every setting.
const Prefix = "CROWDSRC"

// FromEnv loads an optional .env file and then the process environment.
func FromEnv() (Config, error) {
	_ = godotenv.Load()
	return Load()
}

// Load reads configuration from the process environment only.
func Load() (Config, error) {
	var cfg Config
	// Each section is processed against the bare prefix so variables stay
	// flat (CROWDSRC_ADDR, not CROWDSRC_SERVER_ADDR).
	sections := []any{&cfg.Server, &cfg.Database, &cfg.Log, &cfg.Notify, &cfg.Redis, &cfg.Kafka, &cfg.SES}
	for _, section := range sections {
		if err := envconfig.Process(Prefix, section); err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Store {
	case StorePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("%s_DATABASE_URL is required for the %s store", Prefix, StorePostgres)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store %q", c.Database.Store)
	}

	for i, kind := range c.Notify.Kinds {
		kind = strings.ToLower(strings.TrimSpace(kind))
		c.Notify.Kinds[i] = kind
		switch kind {
		case NotifierNoop, NotifierCollecting:
		case NotifierSES:
			if c.SES.From == "" {
				return fmt.Errorf("%s_SES_FROM is required for the %s notifier", Prefix, NotifierSES)
			}
		case NotifierKafka:
			if len(c.Kafka.Brokers) == 0 {
				return fmt.Errorf("%s_KAFKA_BROKERS is required for the %s notifier", Prefix, NotifierKafka)
			}
		case NotifierRedis:
			if c.Redis.URL == "" {
				return fmt.Errorf("%s_REDIS_URL is required for the %s notifier", Prefix, NotifierRedis)
			}
		default:
			return fmt.Errorf("unknown notifier %q", kind)
		}
	}
	if c.Notify.MaxInFlight <= 0 {
		return fmt.Errorf("%s_NOTIFY_MAX_IN_FLIGHT must be positive", Prefix)
	}
	return nil
}
