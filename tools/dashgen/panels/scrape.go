package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ScrapeRate returns a timeseries panel showing successful scrapes per
// minute, broken down by site.
func ScrapeRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Scrapes / min").
		Description("Rate of successful scrapes per minute, by site").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(rate(pricepulse_scrapes_total{job="pricepulse"}[5m])) by (site) * 60`,
			"{{site}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// ScrapeFailures returns a timeseries panel showing scrape failures per
// minute, broken down by site.
func ScrapeFailures() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Failures / min").
		Description("Rate of scrape failures per minute, by site").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(rate(pricepulse_scrape_failures_total{job="pricepulse"}[5m])) by (site) * 60`,
			"{{site}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(0.1, 1)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// ScrapeLatency returns a timeseries panel showing p50 and p95 single-item
// scrape durations.
func ScrapeLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Scrape Duration").
		Description("Single-item scrape duration percentiles").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`histogram_quantile(0.50, sum(rate(pricepulse_scrape_duration_seconds_bucket{job="pricepulse"}[5m])) by (le))`,
			"p50",
			"A",
		)).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(pricepulse_scrape_duration_seconds_bucket{job="pricepulse"}[5m])) by (le))`,
			"p95",
			"B",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
