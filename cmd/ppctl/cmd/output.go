package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	domain "github.com/pricepulse/pricepulse/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printProductTable(products []domain.Product) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tNAME\tSITE\tCADENCE\tCURRENT\tTARGET\tACTIVE\n")
	for i := range products {
		p := &products[i]
		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\t%v\n",
			p.ID,
			truncate(p.Name, 40),
			p.SourceSite,
			p.Cadence,
			fmtPrice(p.CurrentPrice),
			fmtPrice(p.TargetPrice),
			p.Active,
		)
	}
	return tw.finish()
}

func printProductDetail(p *domain.Product) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%s\n", p.ID)
	tw.writef("Name:\t%s\n", p.Name)
	tw.writef("Site:\t%s\n", p.SourceSite)
	tw.writef("URL:\t%s\n", p.URL)
	tw.writef("Cadence:\t%s\n", p.Cadence)
	tw.writef("Current Price:\t%s\n", fmtPrice(p.CurrentPrice))
	tw.writef("Target Price:\t%s\n", fmtPrice(p.TargetPrice))
	tw.writef("Alert Email:\t%s\n", p.AlertEmail)
	tw.writef("Active:\t%v\n", p.Active)
	tw.writef("Created:\t%s\n", p.CreatedAt.Format("2006-01-02 15:04:05"))
	return tw.finish()
}

func printPricePointsTable(points []domain.PricePoint) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("RECORDED\tPRICE\tCURRENCY\tAVAILABILITY\n")
	for i := range points {
		pp := &points[i]
		tw.writef("%s\t%s\t%s\t%s\n",
			pp.RecordedAt.Format("2006-01-02 15:04:05"),
			pp.Price.StringFixed(2),
			pp.Currency,
			pp.Availability,
		)
	}
	return tw.finish()
}

func printAnalyticsDetail(a *domain.PriceAnalytics) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Product:\t%s\n", a.ProductID)
	tw.writef("Window:\t%d days\n", a.WindowDays)
	tw.writef("Samples:\t%d\n", a.RecordCount)
	tw.writef("Min:\t%s\n", fmtPrice(a.MinPrice))
	tw.writef("Max:\t%s\n", fmtPrice(a.MaxPrice))
	tw.writef("Avg:\t%s\n", fmtPrice(a.AvgPrice))
	return tw.finish()
}

func printAlertsTable(alerts []domain.Alert) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("TRIGGERED\tKIND\tPRICE\tCHANGE\tNOTIFIED\n")
	for i := range alerts {
		a := &alerts[i]
		change := "-"
		if a.PercentChange != nil {
			change = fmt.Sprintf("%.2f%%", *a.PercentChange)
		}
		tw.writef("%s\t%s\t%s\t%s\t%v\n",
			a.TriggeredAt.Format("2006-01-02 15:04:05"),
			a.Kind,
			a.TriggerPrice.StringFixed(2),
			change,
			a.Notified,
		)
	}
	return tw.finish()
}

func printJobRunsTable(runs []domain.JobRun) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("JOB\tSTATUS\tSTARTED\tCOMPLETED\tERROR\n")
	for i := range runs {
		r := &runs[i]
		completed := "-"
		if r.CompletedAt != nil {
			completed = r.CompletedAt.Format("2006-01-02 15:04:05")
		}
		tw.writef("%s\t%s\t%s\t%s\t%s\n",
			r.JobName,
			r.Status,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			completed,
			truncate(r.ErrorText, 40),
		)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fmtPrice(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.StringFixed(2)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
