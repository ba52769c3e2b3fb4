package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/catalogops/catalog-mcp/pkg/config"
	"github.com/catalogops/catalog-mcp/pkg/prompt"
	"github.com/catalogops/catalog-mcp/pkg/resource"
	"github.com/catalogops/catalog-mcp/pkg/server"
	"github.com/catalogops/catalog-mcp/pkg/tool"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the dispatcher against the upstream catalog",
	Long: `Drive a round of tool calls, resource reads, and a prompt rendering
through the dispatcher to verify the upstream catalog and registries work.`,
	RunE: runTest,
}

var testProductID string

func init() {
	rootCmd.AddCommand(testCmd)

	testCmd.Flags().StringVar(&testProductID, "product-id", "",
		"Product ID to fetch (skips get-product when empty)")
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Load config
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	builder := server.NewBuilder(log, cfg)

	dispatcher, client, err := builder.BuildDispatcher(ctx)
	if err != nil {
		return fmt.Errorf("building dispatcher: %w", err)
	}

	defer func() {
		if stopErr := client.Stop(); stopErr != nil {
			log.WithError(stopErr).Error("Failed to stop catalog client")
		}
	}()

	fmt.Println("=== list-products ===")

	if err := printJSON(dispatcher.CallTool(ctx, tool.ListProductsToolName, nil)); err != nil {
		return err
	}

	if testProductID != "" {
		fmt.Println("\n=== get-product ===")

		result := dispatcher.CallTool(ctx, tool.GetProductToolName, map[string]any{
			"id": testProductID,
		})
		if err := printJSON(result); err != nil {
			return err
		}
	}

	fmt.Println("\n=== read docs:///policy/shopping.md ===")

	if err := printJSON(dispatcher.ReadResource(ctx, resource.PolicyResourceURI)); err != nil {
		return err
	}

	fmt.Println("\n=== read faqs://checkout ===")

	if err := printJSON(dispatcher.ReadResource(ctx, "faqs://checkout")); err != nil {
		return err
	}

	fmt.Println("\n=== customer-welcome prompt ===")

	result := dispatcher.GetPrompt(ctx, prompt.CustomerWelcomePromptName, map[string]string{
		"name":  "Ada",
		"style": "friendly",
	})

	return printJSON(result)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	fmt.Println(string(data))

	return nil
}
