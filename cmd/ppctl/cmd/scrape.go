package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func scrapeCmd() *cobra.Command {
	scrapeRoot := &cobra.Command{
		Use:   "scrape",
		Short: "Trigger scrapes",
		Long: "Trigger scrapes outside the normal schedule: a full cadence batch\n" +
			"or a single product.",
	}

	scrapeRoot.AddCommand(
		scrapeBatchCmd(),
		scrapeProductCmd(),
	)

	return scrapeRoot
}

func scrapeBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <hourly|daily>",
		Short: "Scrape every active product on a cadence",
		Example: `  ppctl scrape batch hourly
  ppctl scrape batch daily`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			resp, err := c.RunBatch(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(resp)
			}
			fmt.Printf("Batch complete: %d scraped, %d succeeded, %d failed.\n",
				resp.Total, resp.Succeeded, resp.Failed)
			return nil
		},
	}
}

func scrapeProductCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "product <id>",
		Short:   "Scrape a single product now",
		Example: `  ppctl scrape product abc123`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			resp, err := c.ScrapeNow(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(resp)
			}
			r := resp.Reading
			fmt.Printf("Scraped %s: %s %s (%s)\n",
				r.ProductName, r.Price.StringFixed(2), r.Currency, r.Availability)
			return nil
		},
	}
}
