package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pricepulse/pricepulse/tools/dashgen/dashboards"
	"github.com/pricepulse/pricepulse/tools/dashgen/rules"
	"github.com/pricepulse/pricepulse/tools/dashgen/validate"
)

func TestDefaultConfigValid(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate_EmptyOutputDir(t *testing.T) {
	t.Parallel()
	cfg := Config{OutputDir: "", DashboardEnabled: true}
	assert.Error(t, cfg.Validate())
}

func TestConfigValidate_NothingEnabled(t *testing.T) {
	t.Parallel()
	cfg := Config{OutputDir: "/tmp", DashboardEnabled: false, RulesEnabled: false}
	assert.Error(t, cfg.Validate())
}

func TestBuildOverviewDashboard(t *testing.T) {
	t.Parallel()

	builder := dashboards.BuildOverview()
	dash, err := builder.Build()
	require.NoError(t, err)

	// Verify dashboard metadata.
	require.NotNil(t, dash.Uid)
	assert.Equal(t, "pricepulse-overview", *dash.Uid)

	require.NotNil(t, dash.Title)
	assert.Equal(t, "PricePulse Overview", *dash.Title)

	// Verify template variable.
	require.NotNil(t, dash.Templating)
	assert.Len(t, dash.Templating.List, 1)
	assert.Equal(t, "datasource", dash.Templating.List[0].Name)

	// Verify we have 5 rows.
	assert.Len(t, dash.Panels, 5)

	// Count total inner panels.
	totalPanels := 0
	for _, p := range dash.Panels {
		if p.RowPanel != nil {
			totalPanels += len(p.RowPanel.Panels)
		}
	}
	assert.Equal(t, 13, totalPanels)

	// Validate PromQL and metrics.
	result := validate.Dashboard(dash, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)
	assert.Empty(t, result.Warnings, "unexpected warnings: %v", result.Warnings)
}

func TestRecordingRules(t *testing.T) {
	t.Parallel()

	cr := rules.RecordingRules()
	assert.Equal(t, "monitoring.coreos.com/v1", cr.APIVersion)
	assert.Equal(t, "PrometheusRule", cr.Kind)
	assert.Equal(t, "pricepulse-recording-rules", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]
	assert.Equal(t, "pricepulse-recording", group.Name)
	require.Len(t, group.Rules, 4)

	expectedRecords := []string{
		"pricepulse:http_requests:rate5m",
		"pricepulse:http_errors:rate5m",
		"pricepulse:scrapes:rate5m",
		"pricepulse:scrape_failures:rate5m",
	}
	for i, rule := range group.Rules {
		assert.Equal(t, expectedRecords[i], rule.Record)
		assert.NotEmpty(t, rule.Expr)
	}

	// Verify YAML marshaling works.
	data, err := yaml.Marshal(cr)
	require.NoError(t, err)
	assert.Contains(t, string(data), "apiVersion: monitoring.coreos.com/v1")
}

func TestAlertRules(t *testing.T) {
	t.Parallel()

	cr := rules.AlertRules()
	assert.Equal(t, "monitoring.coreos.com/v1", cr.APIVersion)
	assert.Equal(t, "PrometheusRule", cr.Kind)
	assert.Equal(t, "pricepulse-alerts", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]
	assert.Equal(t, "pricepulse-alerts", group.Name)
	require.Len(t, group.Rules, 6)

	expectedAlerts := []string{
		"PricePulseDown",
		"PricePulseReadinessDown",
		"PricePulseHighErrorRate",
		"PricePulseScrapeFailures",
		"PricePulseNoScrapes",
		"PricePulseNotificationFailures",
	}
	for i, rule := range group.Rules {
		assert.Equal(t, expectedAlerts[i], rule.Alert)
		assert.NotEmpty(t, rule.Expr)
		assert.NotEmpty(t, rule.Labels["severity"], "alert %s missing severity", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["summary"], "alert %s missing summary", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["description"], "alert %s missing description", rule.Alert)
	}
}

func TestRun_WritesArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := Config{OutputDir: dir, DashboardEnabled: true, RulesEnabled: true}
	require.NoError(t, run(cfg, false))

	dashPath := filepath.Join(dir, "grafana", "data", "pricepulse-overview.json")
	data, err := os.ReadFile(dashPath)
	require.NoError(t, err)

	var dash map[string]any
	require.NoError(t, json.Unmarshal(data, &dash))
	assert.Equal(t, "pricepulse-overview", dash["uid"])

	for _, name := range []string{"pricepulse-recording-rules.yaml", "pricepulse-alerts.yaml"} {
		data, err := os.ReadFile(filepath.Join(dir, "prometheus", name))
		require.NoError(t, err)
		assert.Contains(t, string(data), generatedHeader)

		var cr rules.PrometheusRule
		require.NoError(t, yaml.Unmarshal(data, &cr))
		assert.Equal(t, "PrometheusRule", cr.Kind)
	}
}

func TestRun_ValidateOnlyWritesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := Config{OutputDir: dir, DashboardEnabled: true, RulesEnabled: true}
	require.NoError(t, run(cfg, true))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
