// Package server provides the MCP server implementation for catalog-mcp.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/catalogops/catalog-mcp/internal/version"
	"github.com/catalogops/catalog-mcp/pkg/config"
	"github.com/catalogops/catalog-mcp/pkg/dispatch"
	"github.com/catalogops/catalog-mcp/pkg/observability"
	"github.com/catalogops/catalog-mcp/pkg/prompt"
	"github.com/catalogops/catalog-mcp/pkg/resource"
	"github.com/catalogops/catalog-mcp/pkg/tool"
)

// Transport constants.
const (
	TransportStdio          = "stdio"
	TransportSSE            = "sse"
	TransportStreamableHTTP = "streamable-http"
)

// Service is the main MCP server service.
type Service interface {
	// Start initializes and starts the MCP server.
	Start(ctx context.Context) error
	// Stop gracefully shuts down the server.
	Stop() error
}

// service implements the Service interface.
type service struct {
	log              logrus.FieldLogger
	cfg              config.ServerConfig
	dispatcher       *dispatch.Dispatcher
	toolRegistry     tool.Registry
	resourceRegistry resource.Registry
	promptRegistry   prompt.Registry
	cleanup          func()
	mcpServer        *mcpserver.MCPServer
	sseServer        *mcpserver.SSEServer
	httpServer       *http.Server
	mu               sync.Mutex
	done             chan struct{}
	running          bool
}

// NewService creates a new MCP server service. cleanup is invoked once on
// Stop to release collaborator resources (the catalog client).
func NewService(
	log logrus.FieldLogger,
	cfg config.ServerConfig,
	dispatcher *dispatch.Dispatcher,
	toolRegistry tool.Registry,
	resourceRegistry resource.Registry,
	promptRegistry prompt.Registry,
	cleanup func(),
) Service {
	return &service{
		log:              log.WithField("component", "server"),
		cfg:              cfg,
		dispatcher:       dispatcher,
		toolRegistry:     toolRegistry,
		resourceRegistry: resourceRegistry,
		promptRegistry:   promptRegistry,
		cleanup:          cleanup,
		done:             make(chan struct{}),
	}
}

// Start initializes and starts the MCP server.
func (s *service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()

		return errors.New("server already running")
	}

	s.running = true
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"transport": s.cfg.Transport,
		"version":   version.Version,
	}).Info("Starting MCP server")

	// Create the MCP server
	s.mcpServer = mcpserver.NewMCPServer(
		"catalog-mcp",
		version.Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(true, true),
		mcpserver.WithPromptCapabilities(true),
		mcpserver.WithLogging(),
	)

	// Register tools, resources, and prompts
	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	// Start the appropriate transport
	switch s.cfg.Transport {
	case TransportStdio:
		return s.runStdio(ctx)
	case TransportSSE:
		return s.runSSE(ctx)
	case TransportStreamableHTTP:
		return s.runStreamableHTTP(ctx)
	default:
		return fmt.Errorf("unknown transport: %s", s.cfg.Transport)
	}
}

// Stop gracefully shuts down the server.
func (s *service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.log.Info("Stopping MCP server")

	close(s.done)
	s.running = false

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.log.WithError(err).Error("Failed to shutdown HTTP server")
		}
	}

	if s.sseServer != nil {
		if err := s.sseServer.Shutdown(shutdownCtx); err != nil {
			s.log.WithError(err).Error("Failed to shutdown SSE server")
		}
	}

	if s.cleanup != nil {
		s.cleanup()
	}

	s.log.Info("MCP server stopped")

	return nil
}

// registerTools registers all tools with the MCP server. Handlers are thin
// adapters: the dispatcher owns validation, execution, and enveloping.
func (s *service) registerTools() {
	for _, def := range s.toolRegistry.Definitions() {
		s.log.WithField("tool", def.Tool.Name).Debug("Registering tool with MCP server")

		s.mcpServer.AddTool(def.Tool, s.createToolHandler(def.Tool.Name))
	}
}

// registerResources registers all resources with the MCP server.
func (s *service) registerResources() {
	for _, res := range s.resourceRegistry.ListStatic() {
		s.log.WithField("uri", res.URI).Debug("Registering static resource with MCP server")

		uri := res.URI
		s.mcpServer.AddResource(res, s.createResourceHandler(uri))
	}

	for _, tmpl := range s.resourceRegistry.ListTemplates() {
		templateURI := ""
		if tmpl.URITemplate != nil {
			templateURI = tmpl.URITemplate.Raw()
		}

		s.log.WithField("template", templateURI).Debug("Registering template resource with MCP server")

		s.mcpServer.AddResourceTemplate(tmpl, s.createResourceTemplateHandler())
	}
}

// registerPrompts registers all prompts with the MCP server.
func (s *service) registerPrompts() {
	for _, def := range s.promptRegistry.Definitions() {
		s.log.WithField("prompt", def.Prompt.Name).Debug("Registering prompt with MCP server")

		s.mcpServer.AddPrompt(def.Prompt, s.createPromptHandler(def.Prompt.Name))
	}
}

// createToolHandler adapts a named tool to the MCP handler signature.
func (s *service) createToolHandler(name string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.dispatcher.CallTool(ctx, name, req.GetArguments()), nil
	}
}

// createResourceHandler creates a resource handler for a static resource.
func (s *service) createResourceHandler(uri string) mcpserver.ResourceHandlerFunc {
	return func(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return s.dispatcher.ReadResource(ctx, uri).Contents, nil
	}
}

// createResourceTemplateHandler creates a handler for template resources.
func (s *service) createResourceTemplateHandler() mcpserver.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return s.dispatcher.ReadResource(ctx, req.Params.URI).Contents, nil
	}
}

// createPromptHandler adapts a named prompt to the MCP handler signature.
func (s *service) createPromptHandler(name string) mcpserver.PromptHandlerFunc {
	return func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return s.dispatcher.GetPrompt(ctx, name, req.Params.Arguments), nil
	}
}

// runStdio runs the server using stdio transport.
func (s *service) runStdio(ctx context.Context) error {
	s.log.Info("Running MCP server with stdio transport")

	errCh := make(chan error, 1)

	go func() {
		errCh <- mcpserver.ServeStdio(s.mcpServer)
	}()

	observability.ActiveConnections.Inc()
	defer observability.ActiveConnections.Dec()

	select {
	case <-ctx.Done():
		return nil
	case <-s.done:
		return nil
	case err := <-errCh:
		return err
	}
}

// runSSE runs the server using SSE transport.
func (s *service) runSSE(ctx context.Context) error {
	return s.runHTTP(ctx, "sse")
}

// runStreamableHTTP runs the server using streamable HTTP transport.
func (s *service) runStreamableHTTP(ctx context.Context) error {
	return s.runHTTP(ctx, "streamable-http")
}

// runHTTP runs the server over one of the HTTP transports. Both use the SSE
// server infrastructure with different settings.
func (s *service) runHTTP(ctx context.Context, transport string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.log.WithFields(logrus.Fields{
		"address":   addr,
		"transport": transport,
	}).Info("Running MCP server with HTTP transport")

	opts := []mcpserver.SSEOption{
		mcpserver.WithKeepAlive(true),
	}

	if s.cfg.BaseURL != "" {
		opts = append(opts, mcpserver.WithBaseURL(s.cfg.BaseURL))
	}

	s.sseServer = mcpserver.NewSSEServer(s.mcpServer, opts...)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.buildHTTPHandler(s.sseServer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	observability.ActiveConnections.Inc()
	defer observability.ActiveConnections.Dec()

	select {
	case <-ctx.Done():
		return s.httpServer.Shutdown(ctx)
	case <-s.done:
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	}
}

// buildHTTPHandler creates an HTTP handler with health routes.
func (s *service) buildHTTPHandler(mcpHandler http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	r.Handle("/sse", mcpHandler)
	r.Handle("/sse/*", mcpHandler)
	r.Handle("/message", mcpHandler)
	r.Handle("/message/*", mcpHandler)

	return r
}

// Compile-time interface compliance check.
var _ Service = (*service)(nil)
