// Package prompt provides MCP prompt registration and handling.
package prompt

import (
	"context"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/catalogops/catalog-mcp/pkg/schema"
)

// Handler renders a prompt with validated arguments and returns the text of
// the resulting user message.
type Handler func(ctx context.Context, args schema.Values) (string, error)

// Definition describes a prompt's metadata, declared input shape, and handler.
type Definition struct {
	Prompt  mcp.Prompt
	Shape   schema.Shape
	Handler Handler
}

// Registry manages prompt registration and lookup. Entries are registered
// once during startup and are read-only afterwards.
type Registry interface {
	// Register adds a prompt definition to the registry. Registering a
	// name twice overwrites the earlier entry (last write wins) with a
	// warning.
	Register(def Definition)
	// List returns all registered prompts.
	List() []mcp.Prompt
	// Get retrieves a prompt definition by name.
	Get(name string) (Definition, bool)
	// Definitions returns all registered prompt definitions.
	Definitions() []Definition
}

type registry struct {
	log     logrus.FieldLogger
	mu      sync.RWMutex
	prompts map[string]Definition
	order   []string
}

// NewRegistry creates a new prompt registry.
func NewRegistry(log logrus.FieldLogger) Registry {
	return &registry{
		log:     log.WithField("component", "prompt-registry"),
		prompts: make(map[string]Definition, 4),
	}
}

// Register adds a prompt definition to the registry.
func (r *registry) Register(def Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.prompts[def.Prompt.Name]; exists {
		r.log.WithField("prompt", def.Prompt.Name).Warn("Overwriting existing prompt definition")
	} else {
		r.order = append(r.order, def.Prompt.Name)
	}

	r.prompts[def.Prompt.Name] = def
	r.log.WithField("prompt", def.Prompt.Name).Debug("Registered prompt")
}

// List returns all registered prompts.
func (r *registry) List() []mcp.Prompt {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prompts := make([]mcp.Prompt, 0, len(r.prompts))
	for _, name := range r.order {
		prompts = append(prompts, r.prompts[name].Prompt)
	}

	return prompts
}

// Get retrieves a prompt definition by name.
func (r *registry) Get(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, exists := r.prompts[name]

	return def, exists
}

// Definitions returns all registered prompt definitions in registration order.
func (r *registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.prompts))
	for _, name := range r.order {
		defs = append(defs, r.prompts[name])
	}

	return defs
}

// Compile-time interface compliance check.
var _ Registry = (*registry)(nil)
