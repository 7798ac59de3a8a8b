// Package config loads and validates client config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Session store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds client configuration loaded from the environment.
type Config struct {
	// APIURL is the base URL of the job-board backend (e.g. https://nexus-backend-rouge.vercel.app/api).
	APIURL string `mapstructure:"NEXUS_API_URL"`
	// StoreDriver selects where the token and user record are persisted: sqlite, postgres or memory.
	StoreDriver string `mapstructure:"SESSION_STORE_DRIVER"`
	// StoreDSN is the SQLite file path or Postgres DSN. Ignored for the memory driver.
	StoreDSN string `mapstructure:"SESSION_STORE_DSN"`
	// HTTPTimeout is the per-request timeout for backend calls (e.g. "15s").
	HTTPTimeout string `mapstructure:"HTTP_TIMEOUT"`
	// PageLimit is the job listing page size sent as "limit".
	PageLimit int `mapstructure:"JOBS_PAGE_LIMIT"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
	// AccessPolicyFile is an optional Rego file replacing the built-in job access policy.
	AccessPolicyFile string `mapstructure:"ACCESS_POLICY_FILE"`

	// OTLPEndpoint is the collector endpoint for traces and metrics; empty disables export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces a plaintext gRPC connection to the collector.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`

	// Usage event sinks (optional). KafkaBrokers is a comma-separated list (e.g. "localhost:9092").
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// KafkaTopic is the topic for usage events (default nexus-events).
	KafkaTopic string `mapstructure:"TELEMETRY_KAFKA_TOPIC"`
	// LokiURL receives usage events directly when set (e.g. http://localhost:3100).
	LokiURL string `mapstructure:"LOKI_URL"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored. Env vars override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("NEXUS_API_URL", "https://nexus-backend-rouge.vercel.app/api")
	v.SetDefault("SESSION_STORE_DRIVER", DriverSQLite)
	v.SetDefault("SESSION_STORE_DSN", "nexus-session.sqlite")
	v.SetDefault("HTTP_TIMEOUT", "15s")
	v.SetDefault("JOBS_PAGE_LIMIT", 10)
	v.SetDefault("APP_ENV", "")
	v.SetDefault("ACCESS_POLICY_FILE", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("TELEMETRY_KAFKA_TOPIC", "nexus-events")
	v.SetDefault("LOKI_URL", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate normalizes and checks the config. Load calls it; flag overrides should call it again.
func (c *Config) Validate() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		return errors.New("config: NEXUS_API_URL must be set")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("config: NEXUS_API_URL must be an absolute URL")
	}

	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case DriverSQLite, DriverPostgres:
		if c.StoreDSN == "" {
			return errors.New("config: SESSION_STORE_DSN must be set for the " + c.StoreDriver + " driver")
		}
	case DriverMemory:
	default:
		return errors.New("config: SESSION_STORE_DRIVER must be sqlite, postgres or memory")
	}

	if c.PageLimit == 0 {
		c.PageLimit = 10
	}
	if c.PageLimit < 1 || c.PageLimit > 100 {
		return errors.New("config: JOBS_PAGE_LIMIT must be between 1 and 100")
	}
	return nil
}

// Timeout parses HTTPTimeout as a time.Duration. Returns 15s if unset or invalid.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.HTTPTimeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// KafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Empty entries are dropped.
func (c *Config) KafkaBrokersList() []string {
	if c == nil || c.KafkaBrokers == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(c.KafkaBrokers, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
