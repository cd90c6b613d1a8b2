// Package main is the entry point for the pricepulse server.
package main

import (
	"os"

	"github.com/pricepulse/pricepulse/cmd/pricepulse/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
