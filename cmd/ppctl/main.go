// Package main is the entry point for the ppctl CLI client.
package main

import (
	"github.com/pricepulse/pricepulse/cmd/ppctl/cmd"
)

func main() {
	cmd.Execute()
}
