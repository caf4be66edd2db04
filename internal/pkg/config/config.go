package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (DB connection, etc.)
// - default: Values common across all environments (intervals, pool sizes)
// -----------------------------------------------------------------------------

type Config struct {
	DB     DBConfig
	Log    LogConfig
	Sweep  SweepConfig
	Notify NotifyConfig
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

type SweepConfig struct {
	// Interval between reconciliation passes. Each pass is idempotent,
	// so the interval trades repair latency against load only.
	Interval time.Duration `envconfig:"SWEEP_INTERVAL" default:"30s"`
	// GroupParallelism bounds how many per-request groups are
	// reconciled at once within a pass.
	GroupParallelism int `envconfig:"SWEEP_GROUP_PARALLELISM" default:"4"`
}

type NotifyConfig struct {
	QueueSize int `envconfig:"NOTIFY_QUEUE_SIZE" default:"64"`
	Workers   int `envconfig:"NOTIFY_WORKERS" default:"2"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level: "error",
		},
		Sweep: SweepConfig{
			Interval:         time.Second,
			GroupParallelism: 4,
		},
		Notify: NotifyConfig{
			QueueSize: 16,
			Workers:   1,
		},
	}
}
