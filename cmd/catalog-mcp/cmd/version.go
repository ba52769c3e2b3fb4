package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/catalogops/catalog-mcp/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("catalog-mcp", version.Full())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
