package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DefaultForwardTimeout bounds every outbound leg of a registration submission.
const DefaultForwardTimeout = 15 * time.Second

type Config struct {
	Env             string
	Port            int
	APIPrefix       string
	ShutdownTimeout time.Duration

	CORS    CORSConfig
	Log     LogConfig
	Webhook WebhookConfig
	Metrics MetricsConfig
	Docs    DocsConfig
	Client  ClientConfig
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// WebhookConfig describes the external workflow webhook the relay forwards to.
type WebhookConfig struct {
	URL         string
	Timeout     time.Duration
	TestEnabled bool
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// DocsConfig toggles the swagger UI outside production.
type DocsConfig struct {
	Enabled bool
}

// ClientConfig is consumed by the registration CLI.
type ClientConfig struct {
	RelayURL string
	Timeout  time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = strings.TrimRight(v.GetString("API_PREFIX"), "/")
	cfg.ShutdownTimeout = parseDuration(v.GetString("SHUTDOWN_TIMEOUT"), 10*time.Second)

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Webhook = WebhookConfig{
		URL:         strings.TrimSpace(v.GetString("WEBHOOK_URL")),
		Timeout:     parseDuration(v.GetString("WEBHOOK_TIMEOUT"), DefaultForwardTimeout),
		TestEnabled: v.GetBool("ENABLE_WEBHOOK_TEST"),
	}

	cfg.Metrics = MetricsConfig{
		Enabled: v.GetBool("ENABLE_METRICS"),
		Path:    v.GetString("METRICS_PATH"),
	}

	cfg.Docs = DocsConfig{Enabled: v.GetBool("ENABLE_DOCS")}

	cfg.Client = ClientConfig{
		RelayURL: strings.TrimSpace(v.GetString("RELAY_URL")),
		Timeout:  parseDuration(v.GetString("RELAY_TIMEOUT"), DefaultForwardTimeout),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the values the relay cannot run without.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := absoluteURL("WEBHOOK_URL", c.Webhook.URL); err != nil {
		return err
	}
	if c.Webhook.Timeout <= 0 {
		return fmt.Errorf("WEBHOOK_TIMEOUT must be positive, got %s", c.Webhook.Timeout)
	}
	if c.Client.RelayURL != "" {
		if err := absoluteURL("RELAY_URL", c.Client.RelayURL); err != nil {
			return err
		}
	}
	if c.Client.Timeout <= 0 {
		return fmt.Errorf("RELAY_TIMEOUT must be positive, got %s", c.Client.Timeout)
	}
	return nil
}

// RelayPath is the route the form posts registrations to.
func (c *Config) RelayPath() string {
	return c.APIPrefix + "/submit-registration"
}

// WebhookTestPath is the route of the webhook probe endpoint.
func (c *Config) WebhookTestPath() string {
	return c.APIPrefix + "/test-webhook"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("WEBHOOK_URL", "http://localhost:5678/webhook/registration")
	v.SetDefault("WEBHOOK_TIMEOUT", "15s")
	v.SetDefault("ENABLE_WEBHOOK_TEST", false)

	v.SetDefault("ENABLE_METRICS", true)
	v.SetDefault("METRICS_PATH", "/metrics")
	v.SetDefault("ENABLE_DOCS", true)

	v.SetDefault("RELAY_URL", "http://localhost:8080/api/submit-registration")
	v.SetDefault("RELAY_TIMEOUT", "15s")
}

func absoluteURL(key, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", key)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", key, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", key, raw)
	}
	return nil
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
