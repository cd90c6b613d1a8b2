package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/pricepulse/pricepulse/internal/api/client"
)

func productsCmd() *cobra.Command {
	productsRoot := &cobra.Command{
		Use:   "products",
		Short: "Manage tracked products",
		Long: "Manage the products being tracked: add product URLs, set target\n" +
			"prices, inspect price history, and pause or resume scraping.",
	}

	productsRoot.AddCommand(
		productListCmd(),
		productGetCmd(),
		productAddCmd(),
		productTargetCmd(),
		productActivateCmd(),
		productDeactivateCmd(),
		productDeleteCmd(),
		productHistoryCmd(),
		productAnalyticsCmd(),
		productAlertsCmd(),
	)

	return productsRoot
}

func productListCmd() *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked products",
		Example: `  ppctl products list
  ppctl products list --active --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			products, err := c.ListProducts(context.Background(), activeOnly)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(products)
			}
			if len(products) == 0 {
				fmt.Println("No products tracked.")
				return nil
			}
			return printProductTable(products)
		},
	}
	cmd.Flags().BoolVar(&activeOnly, "active", false, "only active products")

	return cmd
}

func productGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show product details",
		Example: `  ppctl products get abc123
  ppctl products get abc123 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			p, err := c.GetProduct(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(p)
			}
			return printProductDetail(p)
		},
	}
}

func productAddCmd() *cobra.Command {
	var (
		productName string
		productURL  string
		cadence     string
		targetPrice string
		alertEmail  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Track a new product",
		Long: "Track a new product URL. The site must have a registered scraper\n" +
			"(check with `ppctl sites check`). Scraping starts on the next cycle\n" +
			"of the chosen cadence.",
		Example: `  # Track a product hourly with a target price
  ppctl products add --name "Mechanical Keyboard" \
    --url "https://www.amazon.in/dp/B09X1234" \
    --cadence HOURLY --target 2499.00

  # Track a product daily without a target
  ppctl products add --name "Monitor" --url "https://www.flipkart.com/p/x" --cadence DAILY`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if productName == "" || productURL == "" {
				return fmt.Errorf("--name and --url are required")
			}
			c := newClient()
			created, err := c.CreateProduct(context.Background(), &apiclient.CreateProductParams{
				Name:        productName,
				URL:         productURL,
				Cadence:     cadence,
				TargetPrice: targetPrice,
				AlertEmail:  alertEmail,
			})
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(created)
			}
			fmt.Printf("Product tracked: %s (%s)\n", created.Name, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&productName, "name", "", "product display name")
	cmd.Flags().StringVar(&productURL, "url", "", "product page URL")
	cmd.Flags().StringVar(&cadence, "cadence", "HOURLY", "scrape cadence (HOURLY, DAILY)")
	cmd.Flags().StringVar(&targetPrice, "target", "", "alert target price")
	cmd.Flags().StringVar(&alertEmail, "email", "", "email recorded on alerts")

	return cmd
}

func productTargetCmd() *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "target <id> [price]",
		Short: "Set or clear the target price",
		Example: `  ppctl products target abc123 1999.50
  ppctl products target abc123 --clear`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			target := ""
			if len(args) == 2 {
				target = args[1]
			}
			if !clear && target == "" {
				return fmt.Errorf("provide a price or --clear")
			}
			c := newClient()
			if err := c.SetTargetPrice(context.Background(), args[0], target); err != nil {
				return err
			}
			if target == "" {
				fmt.Printf("Target cleared for %s.\n", args[0])
			} else {
				fmt.Printf("Target for %s set to %s.\n", args[0], target)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "clear the target price")

	return cmd
}

func productActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "activate <id>",
		Short:   "Resume scraping a product",
		Example: `  ppctl products activate abc123`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runSetProductActive(args[0], true)
		},
	}
}

func productDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "deactivate <id>",
		Short:   "Pause scraping a product",
		Example: `  ppctl products deactivate abc123`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runSetProductActive(args[0], false)
		},
	}
}

func productDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete a product",
		Example: `  ppctl products delete abc123`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			if err := c.DeleteProduct(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Product %s deleted.\n", args[0])
			return nil
		},
	}
}

func productHistoryCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "history <id>",
		Short: "Show price history",
		Example: `  ppctl products history abc123
  ppctl products history abc123 --days 90 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			resp, err := c.GetPriceHistory(context.Background(), args[0], days)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(resp)
			}
			if len(resp.Points) == 0 {
				fmt.Println("No price points recorded.")
				return nil
			}
			return printPricePointsTable(resp.Points)
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "trailing window in days")

	return cmd
}

func productAnalyticsCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "analytics <id>",
		Short: "Show price analytics",
		Example: `  ppctl products analytics abc123
  ppctl products analytics abc123 --days 90`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			resp, err := c.GetPriceAnalytics(context.Background(), args[0], days)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(resp)
			}
			return printAnalyticsDetail(resp)
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "trailing window in days")

	return cmd
}

func productAlertsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alerts <id>",
		Short: "Show alerts fired for a product",
		Example: `  ppctl products alerts abc123
  ppctl products alerts abc123 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			alerts, err := c.ListProductAlerts(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(alerts)
			}
			if len(alerts) == 0 {
				fmt.Println("No alerts fired.")
				return nil
			}
			return printAlertsTable(alerts)
		},
	}
}

func runSetProductActive(id string, active bool) error {
	c := newClient()
	if err := c.SetProductActive(context.Background(), id, active); err != nil {
		return err
	}

	action := "activated"
	if !active {
		action = "deactivated"
	}
	fmt.Printf("Product %s %s.\n", id, action)
	return nil
}
