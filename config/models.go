package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
)

// Config holds application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	GitHub    GitHubConfig    `mapstructure:"github"`
	Reports   ReportsConfig   `mapstructure:"reports"`
	Review    ReviewConfig    `mapstructure:"review"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Retention RetentionConfig `mapstructure:"retention"`
	Harvest   HarvestConfig   `mapstructure:"harvest"`
	Slack     SlackConfig     `mapstructure:"slack"`
	Notify    NotifyConfig    `mapstructure:"notify"`
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Server.Port == 0 {
		return errors.New("server.port is required")
	}
	if c.Postgres.User == "" || c.Postgres.Password == "" || c.Postgres.DBName == "" {
		return errors.New("postgres credentials are required")
	}
	if c.Postgres.Host == "" {
		return errors.New("postgres.host is required")
	}
	if c.Retention.PullRequestDays <= 0 || c.Retention.ReportDays <= 0 {
		return errors.New("retention horizons must be positive")
	}
	if c.Server.RateLimitMax < 0 {
		return errors.New("server.rate_limit_max must not be negative")
	}
	if c.Server.RateLimitMax > 0 && c.Server.RateLimitWindow <= 0 {
		return errors.New("server.rate_limit_window must be positive")
	}
	if c.Reports.MinutesPerPR < 0 || c.Review.MinutesPerReview < 0 {
		return errors.New("time estimates must not be negative")
	}
	if _, err := c.Reports.Location(); err != nil {
		return fmt.Errorf("reports.timezone: %w", err)
	}
	if c.Scheduler.Enabled {
		if _, err := cron.ParseStandard(c.Scheduler.ReportSchedule); err != nil {
			return fmt.Errorf("scheduler.report_schedule: %w", err)
		}
		if _, err := cron.ParseStandard(c.Scheduler.CleanupSchedule); err != nil {
			return fmt.Errorf("scheduler.cleanup_schedule: %w", err)
		}
	}
	return nil
}

// ServerAddr returns host:port for HTTP server binding.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ServerConfig contains HTTP server options.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// RateLimitMax is the per-client request budget for one window. Zero disables limiting.
	RateLimitMax    int           `mapstructure:"rate_limit_max"`
	RateLimitWindow time.Duration `mapstructure:"rate_limit_window"`
}

// HTTPConfig contains transport settings.
type HTTPConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LoggingConfig contains logger preferences.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// PostgresConfig describes database connection parameters.
type PostgresConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	DBName         string        `mapstructure:"db_name"`
	SSLMode        string        `mapstructure:"ssl_mode"`
	MigrationsDir  string        `mapstructure:"migrations_dir"`
	MigrateTimeout time.Duration `mapstructure:"migrate_timeout"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout"`
	MaxConns       int32         `mapstructure:"max_conns"`
	MinConns       int32         `mapstructure:"min_conns"`
}

// DSN returns a Postgres connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode,
	)
}

// GitHubConfig holds GitHub App credentials.
type GitHubConfig struct {
	AppID          int64  `mapstructure:"app_id"`
	PrivateKey     string `mapstructure:"private_key"`
	PrivateKeyPath string `mapstructure:"private_key_path"`
	WebhookSecret  string `mapstructure:"webhook_secret"`
	BaseURL        string `mapstructure:"base_url"`
}

// Enabled reports whether the App client can be constructed.
func (g GitHubConfig) Enabled() bool {
	return g.AppID != 0 && (g.PrivateKey != "" || g.PrivateKeyPath != "")
}

// Key returns the PEM private key, reading it from disk when only a path is configured.
func (g GitHubConfig) Key() ([]byte, error) {
	if g.PrivateKey != "" {
		return []byte(g.PrivateKey), nil
	}
	if g.PrivateKeyPath == "" {
		return nil, errors.New("github private key is not configured")
	}
	return os.ReadFile(g.PrivateKeyPath)
}

// ReportsConfig tunes the report aggregation engine.
type ReportsConfig struct {
	Timezone     string        `mapstructure:"timezone"`
	MinutesPerPR int           `mapstructure:"minutes_per_pr"`
	ClaimTTL     time.Duration `mapstructure:"claim_ttl"`
}

// Location resolves the reference timezone used for day boundaries.
func (r ReportsConfig) Location() (*time.Location, error) {
	if r.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(r.Timezone)
}

// ReviewConfig tunes review time estimation.
type ReviewConfig struct {
	MinutesPerReview int `mapstructure:"minutes_per_review"`
}

// SchedulerConfig holds cron expressions for background jobs.
type SchedulerConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	ReportSchedule  string `mapstructure:"report_schedule"`
	CleanupSchedule string `mapstructure:"cleanup_schedule"`
}

// RetentionConfig holds retention horizons in days.
type RetentionConfig struct {
	PullRequestDays int `mapstructure:"pull_request_days"`
	ReportDays      int `mapstructure:"report_days"`
}

// HarvestConfig holds Harvest API credentials and targets.
type HarvestConfig struct {
	AccountID   string `mapstructure:"account_id"`
	AccessToken string `mapstructure:"access_token"`
	ProjectID   string `mapstructure:"project_id"`
	TaskID      string `mapstructure:"task_id"`
	BaseURL     string `mapstructure:"base_url"`
}

// Enabled reports whether time entries can be created.
func (h HarvestConfig) Enabled() bool {
	return h.AccountID != "" && h.AccessToken != "" && h.ProjectID != "" && h.TaskID != ""
}

// SlackConfig holds the incoming webhook URL.
type SlackConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
}

// NotifyConfig bounds outbound collaborator calls.
type NotifyConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}
