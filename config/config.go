// Package config loads application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envFile = "config/.env"

// NewConfig loads configuration from environment using viper with typed defaults and validation.
func NewConfig() (*Config, error) {
	v := viper.New()
	if envMap, err := godotenv.Read(envFile); err == nil {
		for k, v := range envMap {
			if _, exists := os.LookupEnv(k); !exists {
				_ = os.Setenv(k, v)
			}
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "debug")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.rate_limit_max", 100)
	v.SetDefault("server.rate_limit_window", 15*time.Minute)

	v.SetDefault("http.request_timeout", 10*time.Second)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "postgres")
	v.SetDefault("postgres.db_name", "time_agent")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.migrations_dir", "migrations")
	v.SetDefault("postgres.migrate_timeout", 10*time.Second)
	v.SetDefault("postgres.query_timeout", 5*time.Second)
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)

	v.SetDefault("github.app_id", 0)
	v.SetDefault("github.private_key", "")
	v.SetDefault("github.private_key_path", "")
	v.SetDefault("github.webhook_secret", "")
	v.SetDefault("github.base_url", "")

	v.SetDefault("reports.timezone", "UTC")
	v.SetDefault("reports.minutes_per_pr", 30)
	v.SetDefault("reports.claim_ttl", 5*time.Minute)

	v.SetDefault("review.minutes_per_review", 15)

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.report_schedule", "0 1 * * 6")
	v.SetDefault("scheduler.cleanup_schedule", "0 2 * * *")

	v.SetDefault("retention.pull_request_days", 90)
	v.SetDefault("retention.report_days", 365)

	v.SetDefault("harvest.account_id", "")
	v.SetDefault("harvest.access_token", "")
	v.SetDefault("harvest.project_id", "")
	v.SetDefault("harvest.task_id", "")
	v.SetDefault("harvest.base_url", "https://api.harvestapp.com/v2")

	v.SetDefault("slack.webhook_url", "")

	v.SetDefault("notify.timeout", 10*time.Second)
}

func bindEnvs(v *viper.Viper) {
	keys := []string{
		"logging.level",
		"server.host",
		"server.port",
		"server.shutdown_timeout",
		"server.rate_limit_max",
		"server.rate_limit_window",
		"http.request_timeout",
		"postgres.host",
		"postgres.port",
		"postgres.user",
		"postgres.password",
		"postgres.db_name",
		"postgres.ssl_mode",
		"postgres.migrations_dir",
		"postgres.migrate_timeout",
		"postgres.query_timeout",
		"postgres.max_conns",
		"postgres.min_conns",
		"github.private_key_path",
		"github.base_url",
		"reports.timezone",
		"reports.minutes_per_pr",
		"reports.claim_ttl",
		"review.minutes_per_review",
		"scheduler.enabled",
		"harvest.base_url",
		"notify.timeout",
	}

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// Names used by the existing deployment environment.
	aliases := map[string][]string{
		"server.port":                 {"SERVER_PORT", "PORT"},
		"github.app_id":               {"GITHUB_APP_ID"},
		"github.private_key":          {"GITHUB_PRIVATE_KEY"},
		"github.webhook_secret":       {"GITHUB_WEBHOOK_SECRET"},
		"scheduler.report_schedule":   {"SCHEDULER_REPORT_SCHEDULE", "CRON_SCHEDULE"},
		"scheduler.cleanup_schedule":  {"SCHEDULER_CLEANUP_SCHEDULE", "CLEANUP_CRON_SCHEDULE"},
		"retention.pull_request_days": {"RETENTION_PULL_REQUEST_DAYS", "DATA_RETENTION_DAYS"},
		"retention.report_days":       {"RETENTION_REPORT_DAYS", "REPORT_RETENTION_DAYS"},
		"harvest.account_id":          {"HARVEST_ACCOUNT_ID"},
		"harvest.access_token":        {"HARVEST_ACCESS_TOKEN"},
		"harvest.project_id":          {"HARVEST_PROJECT_ID"},
		"harvest.task_id":             {"HARVEST_TASK_ID"},
		"slack.webhook_url":           {"SLACK_WEBHOOK_URL"},
	}
	for key, envs := range aliases {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}
}
