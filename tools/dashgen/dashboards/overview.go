// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/pricepulse/pricepulse/tools/dashgen/panels"
)

// BuildOverview constructs the PricePulse Overview dashboard with all
// metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("PricePulse Overview").
		Uid("pricepulse-overview").
		Tags([]string{"pricepulse"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	// Row 1: Overview.
	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.UptimeStat()))

	// Row 2: HTTP.
	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	// Row 3: Scraping.
	b.WithRow(dashboard.NewRowBuilder("Scraping").
		WithPanel(panels.ScrapeRate()).
		WithPanel(panels.ScrapeFailures()).
		WithPanel(panels.ScrapeLatency()))

	// Row 4: Batches.
	b.WithRow(dashboard.NewRowBuilder("Batches").
		WithPanel(panels.BatchDuration()).
		WithPanel(panels.BatchItems()))

	// Row 5: Alerts.
	b.WithRow(dashboard.NewRowBuilder("Alerts").
		WithPanel(panels.AlertsRate()).
		WithPanel(panels.NotificationFailures()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
