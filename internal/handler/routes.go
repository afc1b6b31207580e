package handler

import (
	"github.com/gin-gonic/gin"
)

// RouteConfig selects paths and optional endpoints.
type RouteConfig struct {
	RelayPath          string
	WebhookTestPath    string
	WebhookTestEnabled bool
	MetricsPath        string
	MetricsEnabled     bool
}

// RegisterRoutes mounts the relay endpoints. The relay paths accept every method so the
// handlers can answer non-matching methods with the relay's own 405 body.
func RegisterRoutes(r gin.IRouter, cfg RouteConfig, registration *RegistrationHandler, metrics *MetricsHandler) {
	r.GET("/health", metrics.Health)
	r.GET("/ready", metrics.Ready)

	if cfg.MetricsEnabled && cfg.MetricsPath != "" {
		r.GET(cfg.MetricsPath, metrics.Prometheus)
	}

	r.Any(cfg.RelayPath, registration.Submit)
	if cfg.WebhookTestEnabled && cfg.WebhookTestPath != "" {
		r.Any(cfg.WebhookTestPath, registration.TestWebhook)
	}
}
