package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Service holds general service settings.
type Service struct {
	Environment string `envconfig:"SERVICE_ENVIRONMENT" default:"development"`
	APIPort     string `envconfig:"SERVICE_API_PORT" default:"8080"`
	// SiteURL is the public origin of the site, e.g. https://zjzeller.com.
	// Used for the origin check on the tracking endpoint.
	SiteURL string `envconfig:"SITE_URL"`
}

// ClickHouse holds connection settings for the analytics sink.
type ClickHouse struct {
	Host            string `envconfig:"CLICKHOUSE_HOST" required:"true"`
	Port            string `envconfig:"CLICKHOUSE_PORT" required:"true"`
	Database        string `envconfig:"CLICKHOUSE_DB" required:"true"`
	User            string `envconfig:"CLICKHOUSE_USER" default:""`
	Password        string `envconfig:"CLICKHOUSE_PASSWORD" default:""`
	UseTLS          bool   `envconfig:"CLICKHOUSE_USE_TLS" default:"false"`
	MaxOpenConns    int    `envconfig:"CLICKHOUSE_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int    `envconfig:"CLICKHOUSE_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime int    `envconfig:"CLICKHOUSE_CONN_MAX_LIFETIME_SEC" default:"3600"`
}

// Analytics holds tracking endpoint limits.
type Analytics struct {
	RateLimitMax       int `envconfig:"ANALYTICS_RATE_LIMIT_MAX" default:"30"`
	RateLimitWindowSec int `envconfig:"ANALYTICS_RATE_LIMIT_WINDOW_SEC" default:"60"`
	MaxFieldLength     int `envconfig:"ANALYTICS_MAX_FIELD_LENGTH" default:"500"`
}

// Poster holds the daily-post job settings. The credentials are optional at
// startup; the handler preflight-checks them per invocation so the rest of
// the site keeps serving when the poster is unconfigured.
type Poster struct {
	CronSecret         string `envconfig:"CRON_SECRET"`
	AnthropicAPIKey    string `envconfig:"ANTHROPIC_API_KEY"`
	AnthropicModel     string `envconfig:"ANTHROPIC_MODEL" default:"claude-sonnet-4-5"`
	MaxTokens          int    `envconfig:"POSTER_MAX_TOKENS" default:"1500"`
	XAPIKey            string `envconfig:"X_API_KEY"`
	XAPISecret         string `envconfig:"X_API_SECRET"`
	XAccessToken       string `envconfig:"X_ACCESS_TOKEN"`
	XAccessTokenSecret string `envconfig:"X_ACCESS_TOKEN_SECRET"`
	TimeoutSec         int    `envconfig:"POSTER_TIMEOUT_SEC" default:"60"`
	StripEmoji         bool   `envconfig:"POSTER_STRIP_EMOJI" default:"false"`
}

// Config is the full service configuration, loaded once at startup.
type Config struct {
	Service    Service
	ClickHouse ClickHouse
	Analytics  Analytics
	Poster     Poster
}

// Load reads configuration from the environment. Required keys missing from
// the environment fail here rather than on first use.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
