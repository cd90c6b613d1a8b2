package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func alertsCmd() *cobra.Command {
	alertsRoot := &cobra.Command{
		Use:   "alerts",
		Short: "View fired alerts",
		Long: "View alerts fired by the price engine. Pending alerts have not\n" +
			"been delivered to a notification sink yet.",
	}

	alertsRoot.AddCommand(alertsPendingCmd())

	return alertsRoot
}

func alertsPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List undelivered alerts",
		Example: `  ppctl alerts pending
  ppctl alerts pending --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			alerts, err := c.ListPendingAlerts(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(alerts)
			}
			if len(alerts) == 0 {
				fmt.Println("No pending alerts.")
				return nil
			}
			return printAlertsTable(alerts)
		},
	}
}
