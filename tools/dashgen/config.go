package main

import "errors"

// KnownMetrics is the set of metric names exported by pricepulse plus the
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"pricepulse_http_request_duration_seconds": true,
	"pricepulse_http_requests_total":           true,

	// Health metrics.
	"pricepulse_healthz_up": true,
	"pricepulse_readyz_up":  true,

	// Scrape metrics.
	"pricepulse_scrapes_total":           true,
	"pricepulse_scrape_failures_total":   true,
	"pricepulse_scrape_duration_seconds": true,

	// Batch metrics.
	"pricepulse_batch_duration_seconds": true,
	"pricepulse_batch_items_total":      true,

	// Alert metrics.
	"pricepulse_alerts_fired_total":          true,
	"pricepulse_notification_failures_total": true,

	// Recording rules.
	"pricepulse:http_requests:rate5m":   true,
	"pricepulse:http_errors:rate5m":     true,
	"pricepulse:scrapes:rate5m":         true,
	"pricepulse:scrape_failures:rate5m": true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
