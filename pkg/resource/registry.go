// Package resource provides MCP resource registration and URI resolution.
package resource

import (
	"context"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/catalogops/catalog-mcp/pkg/uritemplate"
)

// ReadHandler reads a resource. For template resources, vars holds the
// variables bound by the URI match; for static resources it is nil.
type ReadHandler func(ctx context.Context, uri string, vars map[string]string) (string, error)

// StaticResource is a resource with a fixed URI.
type StaticResource struct {
	Resource mcp.Resource
	Handler  ReadHandler
}

// TemplateResource is a resource addressed through a URI template.
type TemplateResource struct {
	Template mcp.ResourceTemplate
	Pattern  *uritemplate.Template
	Handler  ReadHandler
}

// Resolved is the outcome of a successful URI resolution: the handler to run,
// the MIME type to report, and any template variables that were bound.
type Resolved struct {
	Handler  ReadHandler
	MIMEType string
	Vars     map[string]string
}

// Registry manages MCP resources and their handlers. Entries are registered
// once during startup and are read-only afterwards.
type Registry interface {
	// RegisterStatic registers a static resource with a fixed URI.
	// Registering a URI twice overwrites the earlier entry (last write
	// wins) with a warning.
	RegisterStatic(res StaticResource)

	// RegisterTemplate registers a template resource. Templates are probed
	// in registration order; registering the same template string twice
	// overwrites the earlier entry with a warning.
	RegisterTemplate(res TemplateResource)

	// ListStatic returns all registered static resources.
	ListStatic() []mcp.Resource

	// ListTemplates returns all registered resource templates.
	ListTemplates() []mcp.ResourceTemplate

	// Resolve finds the entry for a concrete URI. Static URIs are checked
	// first so a literal always beats a template that could also match;
	// among templates the first match in registration order wins.
	Resolve(uri string) (Resolved, bool)
}

// registry is the default implementation of Registry.
type registry struct {
	log       logrus.FieldLogger
	mu        sync.RWMutex
	static    []StaticResource
	templates []TemplateResource
}

// NewRegistry creates a new resource registry.
func NewRegistry(log logrus.FieldLogger) Registry {
	return &registry{
		log:       log.WithField("component", "resource-registry"),
		static:    make([]StaticResource, 0, 4),
		templates: make([]TemplateResource, 0, 4),
	}
}

// RegisterStatic registers a static resource with a fixed URI.
func (r *registry) RegisterStatic(res StaticResource) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.static {
		if existing.Resource.URI == res.Resource.URI {
			r.log.WithField("uri", res.Resource.URI).Warn("Overwriting existing static resource")
			r.static[i] = res

			return
		}
	}

	r.static = append(r.static, res)
	r.log.WithField("uri", res.Resource.URI).Debug("Registered static resource")
}

// RegisterTemplate registers a template resource.
func (r *registry) RegisterTemplate(res TemplateResource) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.templates {
		if existing.Pattern.Raw() == res.Pattern.Raw() {
			r.log.WithField("template", res.Pattern.Raw()).Warn("Overwriting existing template resource")
			r.templates[i] = res

			return
		}
	}

	r.templates = append(r.templates, res)
	r.log.WithField("template", res.Pattern.Raw()).Debug("Registered template resource")
}

// ListStatic returns all registered static resources.
func (r *registry) ListStatic() []mcp.Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resources := make([]mcp.Resource, len(r.static))
	for i, s := range r.static {
		resources[i] = s.Resource
	}

	return resources
}

// ListTemplates returns all registered resource templates.
func (r *registry) ListTemplates() []mcp.ResourceTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	templates := make([]mcp.ResourceTemplate, len(r.templates))
	for i, t := range r.templates {
		templates[i] = t.Template
	}

	return templates
}

// Resolve finds the entry for a concrete URI.
func (r *registry) Resolve(uri string) (Resolved, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Literals take priority over templates to avoid ambiguity when a
	// template could also match a literal's value.
	for _, s := range r.static {
		if s.Resource.URI == uri {
			return Resolved{Handler: s.Handler, MIMEType: s.Resource.MIMEType}, true
		}
	}

	// First matching template in registration order wins. When two
	// templates could match the same URI the tie-break is registration
	// order, which is deterministic but order-dependent.
	for _, t := range r.templates {
		if vars, ok := t.Pattern.Match(uri); ok {
			return Resolved{Handler: t.Handler, MIMEType: t.Template.MIMEType, Vars: vars}, true
		}
	}

	return Resolved{}, false
}

// Compile-time check that registry implements Registry.
var _ Registry = (*registry)(nil)
