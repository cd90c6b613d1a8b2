package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// BatchDuration returns a timeseries panel showing the p95 batch run
// duration, by cadence.
func BatchDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Batch Duration (p95)").
		Description("95th percentile scheduled batch duration, by cadence").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(pricepulse_batch_duration_seconds_bucket{job="pricepulse"}[1h])) by (le, cadence))`,
			"{{cadence}}",
			"A",
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

// BatchItems returns a timeseries panel showing batch items processed per
// hour, by cadence and result.
func BatchItems() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Batch Items / h").
		Description("Items processed by scheduled batches per hour, by cadence and result").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum(increase(pricepulse_batch_items_total{job="pricepulse"}[1h])) by (cadence, result)`,
			"{{cadence}}/{{result}}",
			"A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
