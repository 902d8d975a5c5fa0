package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Status   StatusConfig   `yaml:"status"`
	Email    EmailConfig    `yaml:"email"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address    string `yaml:"address"`
	SwaggerDir string `yaml:"swagger_dir"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers     []string `yaml:"brokers"`
	StatusTopic string   `yaml:"status_topic"`
	AlertsTopic string   `yaml:"alerts_topic"`
	GroupID     string   `yaml:"group_id"`
}

// UpstreamConfig points at the core marketplace API this service polls.
type UpstreamConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// StatusConfig carries the staleness windows and snapshot lifetimes. Zero
// values are replaced with the product defaults after load.
type StatusConfig struct {
	DelayedAfterMinutes      float64 `yaml:"delayed_after_minutes"`
	StuckAfterMinutes        float64 `yaml:"stuck_after_minutes"`
	ReleaseStuckAfterMinutes float64 `yaml:"release_stuck_after_minutes"`
	SnapshotTTLSeconds       int     `yaml:"snapshot_ttl_seconds"`
	WatchTTLMinutes          int     `yaml:"watch_ttl_minutes"`
	RefreshLockSeconds       int     `yaml:"refresh_lock_seconds"`
}

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUsername string `yaml:"smtp_username"`
	SMTPPassword string `yaml:"smtp_password"`
	From         string `yaml:"from"`
	SupportInbox string `yaml:"support_inbox"`
}

type WorkerConfig struct {
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Status.DelayedAfterMinutes == 0 {
		c.Status.DelayedAfterMinutes = 5
	}
	if c.Status.StuckAfterMinutes == 0 {
		c.Status.StuckAfterMinutes = 8
	}
	if c.Status.ReleaseStuckAfterMinutes == 0 {
		c.Status.ReleaseStuckAfterMinutes = 5
	}
	if c.Status.SnapshotTTLSeconds == 0 {
		c.Status.SnapshotTTLSeconds = 600
	}
	if c.Status.WatchTTLMinutes == 0 {
		c.Status.WatchTTLMinutes = 30
	}
	if c.Status.RefreshLockSeconds == 0 {
		c.Status.RefreshLockSeconds = 20
	}
	if c.Upstream.TimeoutSeconds == 0 {
		c.Upstream.TimeoutSeconds = 10
	}
	if c.Worker.PollIntervalSeconds == 0 {
		c.Worker.PollIntervalSeconds = 30
	}
}
