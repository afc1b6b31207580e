package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/submit-registration", cfg.RelayPath())
	assert.Equal(t, "/api/test-webhook", cfg.WebhookTestPath())
	assert.Equal(t, DefaultForwardTimeout, cfg.Webhook.Timeout)
	assert.Equal(t, DefaultForwardTimeout, cfg.Client.Timeout)
	assert.False(t, cfg.Webhook.TestEnabled)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Empty(t, cfg.CORS.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_PREFIX", "/v1/")
	t.Setenv("WEBHOOK_URL", "https://flows.example.test/webhook/abc")
	t.Setenv("WEBHOOK_TIMEOUT", "3s")
	t.Setenv("ENABLE_WEBHOOK_TEST", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.test, ,https://b.example.test")
	t.Setenv("RELAY_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/v1/submit-registration", cfg.RelayPath())
	assert.Equal(t, "https://flows.example.test/webhook/abc", cfg.Webhook.URL)
	assert.Equal(t, 3*time.Second, cfg.Webhook.Timeout)
	assert.True(t, cfg.Webhook.TestEnabled)
	assert.Equal(t, []string{"https://a.example.test", "https://b.example.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, DefaultForwardTimeout, cfg.Client.Timeout, "unparseable durations fall back")
}

func TestLoadRejectsInvalidWebhook(t *testing.T) {
	tests := map[string]string{
		"scheme":   "ftp://flows.example.test/hook",
		"no host":  "http:///hook",
		"relative": "/webhook/registration",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("WEBHOOK_URL", raw)
			_, err := Load()
			assert.ErrorContains(t, err, "WEBHOOK_URL")
		})
	}
}

func TestValidateTimeouts(t *testing.T) {
	cfg := &Config{
		Webhook: WebhookConfig{URL: "http://localhost:5678/webhook", Timeout: 0},
		Client:  ClientConfig{Timeout: time.Second},
	}
	assert.ErrorContains(t, cfg.Validate(), "WEBHOOK_TIMEOUT")

	cfg.Webhook.Timeout = time.Second
	cfg.Client.RelayURL = "localhost:8080"
	assert.ErrorContains(t, cfg.Validate(), "RELAY_URL")

	cfg.Client.RelayURL = ""
	assert.NoError(t, cfg.Validate())

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}
