// Package cmd implements the CLI commands for the pricepulse server.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "pricepulse",
	Short: "Track product prices and send deal alerts",
	Long: "An API-first service that scrapes product pages on a schedule, records " +
		"price history, and sends alerts when a price crosses its target or drops sharply.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
