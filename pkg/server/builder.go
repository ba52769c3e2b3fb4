package server

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/catalogops/catalog-mcp/pkg/catalog"
	"github.com/catalogops/catalog-mcp/pkg/config"
	"github.com/catalogops/catalog-mcp/pkg/dispatch"
	"github.com/catalogops/catalog-mcp/pkg/prompt"
	"github.com/catalogops/catalog-mcp/pkg/resource"
	"github.com/catalogops/catalog-mcp/pkg/tool"
)

// Builder constructs a fully wired MCP server service from configuration.
type Builder struct {
	log logrus.FieldLogger
	cfg *config.Config
}

// NewBuilder creates a new server builder.
func NewBuilder(log logrus.FieldLogger, cfg *config.Config) *Builder {
	return &Builder{
		log: log,
		cfg: cfg,
	}
}

// Build wires up the catalog client, registries, and dispatcher, and returns
// a ready-to-start Service. Construction failures (an invalid upstream
// configuration, an unreachable client) are returned so the caller can exit
// non-zero before any transport is started.
func (b *Builder) Build(ctx context.Context) (Service, error) {
	dispatcher, client, err := b.BuildDispatcher(ctx)
	if err != nil {
		return nil, err
	}

	cleanup := func() {
		if stopErr := client.Stop(); stopErr != nil {
			b.log.WithError(stopErr).Error("Failed to stop catalog client")
		}
	}

	return NewService(
		b.log,
		b.cfg.Server,
		dispatcher,
		dispatcher.Tools(),
		dispatcher.Resources(),
		dispatcher.Prompts(),
		cleanup,
	), nil
}

// BuildDispatcher wires registries and the dispatcher without starting a
// transport. The test command uses this to drive invocations directly.
func (b *Builder) BuildDispatcher(ctx context.Context) (*dispatch.Dispatcher, catalog.Client, error) {
	client, err := catalog.NewClient(b.log, &catalog.Config{
		BaseURL: b.cfg.Catalog.BaseURL,
		Timeout: b.cfg.Catalog.Timeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create catalog client: %w", err)
	}

	if err := client.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to start catalog client: %w", err)
	}

	toolRegistry := tool.NewRegistry(b.log)
	toolRegistry.Register(tool.NewListProductsTool(b.log, client))
	toolRegistry.Register(tool.NewGetProductTool(b.log, client))
	toolRegistry.Register(tool.NewAddProductTool(b.log, client))

	resourceRegistry := resource.NewRegistry(b.log)
	resource.RegisterPolicyResource(b.log, resourceRegistry, b.cfg.Docs.PolicyPath)
	resource.RegisterFAQResources(b.log, resourceRegistry)

	promptRegistry := prompt.NewRegistry(b.log)
	promptRegistry.Register(prompt.NewCustomerWelcomePrompt(b.log))

	dispatcher := dispatch.New(b.log, toolRegistry, resourceRegistry, promptRegistry)

	return dispatcher, client, nil
}
