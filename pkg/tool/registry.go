// Package tool provides MCP tool registration and handling.
package tool

import (
	"context"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/catalogops/catalog-mcp/pkg/schema"
)

// Handler executes a tool call with validated parameters and returns the
// text body of the result.
type Handler func(ctx context.Context, args schema.Values) (string, error)

// Definition describes a tool's metadata, declared input shape, and handler.
// A nil Shape means the tool accepts and ignores all parameters.
type Definition struct {
	Tool    mcp.Tool
	Shape   schema.Shape
	Handler Handler
}

// Registry manages tool registration and lookup. Entries are registered once
// during startup and are read-only afterwards.
type Registry interface {
	// Register adds a tool definition to the registry. Registering a name
	// twice overwrites the earlier entry (last write wins) with a warning.
	Register(def Definition)
	// List returns all registered tool definitions as MCP tools.
	List() []mcp.Tool
	// Get retrieves a tool definition by name.
	Get(name string) (Definition, bool)
	// Definitions returns all registered tool definitions.
	Definitions() []Definition
}

type registry struct {
	log   logrus.FieldLogger
	mu    sync.RWMutex
	tools map[string]Definition
	order []string
}

// NewRegistry creates a new tool registry.
func NewRegistry(log logrus.FieldLogger) Registry {
	return &registry{
		log:   log.WithField("component", "tool-registry"),
		tools: make(map[string]Definition, 8),
	}
}

// Register adds a tool definition to the registry.
func (r *registry) Register(def Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[def.Tool.Name]; exists {
		r.log.WithField("tool", def.Tool.Name).Warn("Overwriting existing tool definition")
	} else {
		r.order = append(r.order, def.Tool.Name)
	}

	r.tools[def.Tool.Name] = def
	r.log.WithField("tool", def.Tool.Name).Debug("Registered tool")
}

// List returns all registered tool definitions as MCP tools.
func (r *registry) List() []mcp.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]mcp.Tool, 0, len(r.tools))
	for _, name := range r.order {
		tools = append(tools, r.tools[name].Tool)
	}

	return tools
}

// Get retrieves a tool definition by name.
func (r *registry) Get(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, exists := r.tools[name]

	return def, exists
}

// Definitions returns all registered tool definitions in registration order.
func (r *registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.tools))
	for _, name := range r.order {
		defs = append(defs, r.tools[name])
	}

	return defs
}

// Compile-time interface compliance check.
var _ Registry = (*registry)(nil)
