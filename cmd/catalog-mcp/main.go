// Package main is the entry point for catalog-mcp.
package main

import (
	"os"

	"github.com/catalogops/catalog-mcp/cmd/catalog-mcp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
