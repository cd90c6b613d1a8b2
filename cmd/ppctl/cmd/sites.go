package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func sitesCmd() *cobra.Command {
	sitesRoot := &cobra.Command{
		Use:   "sites",
		Short: "Inspect supported sites",
	}

	sitesRoot.AddCommand(
		sitesListCmd(),
		sitesCheckCmd(),
	)

	return sitesRoot
}

func sitesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List sites with a registered scraper",
		Example: `  ppctl sites list`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			resp, err := c.ListSites(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(resp)
			}
			for _, s := range resp.Sites {
				fmt.Println(s)
			}
			return nil
		},
	}
}

func sitesCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "check <url>",
		Short:   "Check whether a URL is scrapeable",
		Example: `  ppctl sites check "https://www.amazon.in/dp/B09X1234"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			resp, err := c.CheckSite(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(resp)
			}
			if resp.Supported {
				fmt.Printf("Supported by %s scraper.\n", resp.Site)
			} else {
				fmt.Println("Not supported.")
			}
			return nil
		},
	}
}
