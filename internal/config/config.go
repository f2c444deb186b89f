package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port              string        `mapstructure:"PORT"`
	Env               string        `mapstructure:"ENV"`
	RecordsAPIURL     string        `mapstructure:"RECORDS_API_URL"`
	RecordsAPITimeout time.Duration `mapstructure:"RECORDS_API_TIMEOUT"`
	ReloadDelay       time.Duration `mapstructure:"RELOAD_DELAY"`
	UploadMaxSize     string        `mapstructure:"UPLOAD_MAX_SIZE"`
	RateLimitRPS      float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst    int           `mapstructure:"RATE_LIMIT_BURST"`
	SentryDSN         string        `mapstructure:"SENTRY_DSN"`
}

var keys = []string{
	"PORT",
	"ENV",
	"RECORDS_API_URL",
	"RECORDS_API_TIMEOUT",
	"RELOAD_DELAY",
	"UPLOAD_MAX_SIZE",
	"RATE_LIMIT_RPS",
	"RATE_LIMIT_BURST",
	"SENTRY_DSN",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("RECORDS_API_URL", "http://localhost:5000")
	v.SetDefault("RECORDS_API_TIMEOUT", "0s") // no timeout
	v.SetDefault("RELOAD_DELAY", "2s")
	v.SetDefault("UPLOAD_MAX_SIZE", "32M")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// A missing .env file is fine.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.RecordsAPIURL = strings.TrimRight(cfg.RecordsAPIURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate rejects configurations the frontend cannot run with: the records
// API must be an absolute http(s) URL and durations cannot be negative.
func (c *Config) Validate() error {
	if c.RecordsAPIURL == "" {
		return fmt.Errorf("RECORDS_API_URL is required")
	}
	u, err := url.Parse(c.RecordsAPIURL)
	if err != nil {
		return fmt.Errorf("RECORDS_API_URL is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("RECORDS_API_URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("RECORDS_API_URL must include a host")
	}
	if c.RecordsAPITimeout < 0 {
		return fmt.Errorf("RECORDS_API_TIMEOUT must not be negative, got %s", c.RecordsAPITimeout)
	}
	if c.ReloadDelay < 0 {
		return fmt.Errorf("RELOAD_DELAY must not be negative, got %s", c.ReloadDelay)
	}
	if c.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must not be negative, got %d", c.RateLimitBurst)
	}
	return nil
}
