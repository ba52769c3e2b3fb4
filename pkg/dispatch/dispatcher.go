// Package dispatch routes incoming MCP invocations through lookup,
// validation, and handler execution, and wraps every outcome in a uniform
// envelope. One invocation is processed at a time per transport session; the
// dispatcher holds no state between invocations beyond the registries, which
// are read-only after startup.
package dispatch

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/catalogops/catalog-mcp/pkg/observability"
	"github.com/catalogops/catalog-mcp/pkg/prompt"
	"github.com/catalogops/catalog-mcp/pkg/resource"
	"github.com/catalogops/catalog-mcp/pkg/schema"
	"github.com/catalogops/catalog-mcp/pkg/tool"
)

// Dispatcher is the single entry point for tool calls, resource reads, and
// prompt renderings. Its methods never return an error and never panic: every
// failure is converted to an envelope.
type Dispatcher struct {
	log       logrus.FieldLogger
	tools     tool.Registry
	resources resource.Registry
	prompts   prompt.Registry
}

// New creates a dispatcher over the given registries. The registries may be
// shared read-only between dispatchers.
func New(
	log logrus.FieldLogger,
	tools tool.Registry,
	resources resource.Registry,
	prompts prompt.Registry,
) *Dispatcher {
	return &Dispatcher{
		log:       log.WithField("component", "dispatcher"),
		tools:     tools,
		resources: resources,
		prompts:   prompts,
	}
}

// Tools returns the tool registry the dispatcher serves.
func (d *Dispatcher) Tools() tool.Registry { return d.tools }

// Resources returns the resource registry the dispatcher serves.
func (d *Dispatcher) Resources() resource.Registry { return d.resources }

// Prompts returns the prompt registry the dispatcher serves.
func (d *Dispatcher) Prompts() prompt.Registry { return d.prompts }

// CallTool looks up a tool by name, validates args against its declared
// shape, runs the handler, and returns the enveloped outcome.
func (d *Dispatcher) CallTool(ctx context.Context, name string, args map[string]any) *mcp.CallToolResult {
	started := time.Now()
	log := d.log.WithFields(logrus.Fields{
		"invocation": uuid.NewString(),
		"tool":       name,
	})

	result, derr := d.callTool(ctx, log, name, args)

	d.finish(log, "tool", started, derr)
	observability.ToolCallsTotal.WithLabelValues(name, statusLabel(derr)).Inc()
	observability.ToolCallDuration.WithLabelValues(name).Observe(time.Since(started).Seconds())

	return result
}

func (d *Dispatcher) callTool(
	ctx context.Context, log logrus.FieldLogger,
	name string, args map[string]any,
) (*mcp.CallToolResult, *Error) {
	def, ok := d.tools.Get(name)
	if !ok {
		derr := Errorf(KindResolution, "unknown tool: %s", name)

		return ToolError(derr), derr
	}

	values, err := schema.Validate(def.Shape, args)
	if err != nil {
		derr := classify(err, KindValidation)

		return ToolError(derr), derr
	}

	log.Debug("Executing tool handler")

	text, err := d.runText(ctx, def.Handler, values)
	if err != nil {
		derr := classify(err, KindInternal)

		return ToolError(derr), derr
	}

	return ToolSuccess(text), nil
}

// ReadResource resolves a concrete URI against the registered resources and
// returns the enveloped content.
func (d *Dispatcher) ReadResource(ctx context.Context, uri string) *mcp.ReadResourceResult {
	started := time.Now()
	log := d.log.WithFields(logrus.Fields{
		"invocation": uuid.NewString(),
		"uri":        uri,
	})

	result, derr := d.readResource(ctx, log, uri)

	d.finish(log, "resource", started, derr)
	observability.ResourceReadsTotal.WithLabelValues(uriScheme(uri), statusLabel(derr)).Inc()

	return result
}

func (d *Dispatcher) readResource(
	ctx context.Context, log logrus.FieldLogger, uri string,
) (*mcp.ReadResourceResult, *Error) {
	resolved, ok := d.resources.Resolve(uri)
	if !ok {
		derr := Errorf(KindResolution, "unknown resource URI: %s", uri)

		return ResourceError(uri, derr), derr
	}

	log.Debug("Executing resource handler")

	text, err := d.runRead(ctx, resolved.Handler, uri, resolved.Vars)
	if err != nil {
		derr := classify(err, KindResourceRead)

		return ResourceError(uri, derr), derr
	}

	return ResourceSuccess(uri, resolved.MIMEType, text), nil
}

// GetPrompt looks up a prompt by name, validates its arguments, and returns
// the enveloped rendering.
func (d *Dispatcher) GetPrompt(ctx context.Context, name string, args map[string]string) *mcp.GetPromptResult {
	started := time.Now()
	log := d.log.WithFields(logrus.Fields{
		"invocation": uuid.NewString(),
		"prompt":     name,
	})

	result, derr := d.getPrompt(ctx, log, name, args)

	d.finish(log, "prompt", started, derr)
	observability.PromptGetsTotal.WithLabelValues(name, statusLabel(derr)).Inc()

	return result
}

func (d *Dispatcher) getPrompt(
	ctx context.Context, log logrus.FieldLogger,
	name string, args map[string]string,
) (*mcp.GetPromptResult, *Error) {
	def, ok := d.prompts.Get(name)
	if !ok {
		derr := Errorf(KindResolution, "unknown prompt: %s", name)

		return PromptError(derr), derr
	}

	raw := make(map[string]any, len(args))
	for k, v := range args {
		raw[k] = v
	}

	values, err := schema.Validate(def.Shape, raw)
	if err != nil {
		derr := classify(err, KindValidation)

		return PromptError(derr), derr
	}

	log.Debug("Executing prompt handler")

	text, err := d.runText(ctx, def.Handler, values)
	if err != nil {
		derr := classify(err, KindInternal)

		return PromptError(derr), derr
	}

	return PromptSuccess(def.Prompt.Description, text), nil
}

// runText runs a text-producing handler, converting a panic into a tagged
// internal error so the envelope contract holds.
func (d *Dispatcher) runText(
	ctx context.Context,
	h func(context.Context, schema.Values) (string, error),
	values schema.Values,
) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = Errorf(KindInternal, "handler panic: %v", r)
		}
	}()

	return h(ctx, values)
}

// runRead runs a resource read handler with the same panic containment.
func (d *Dispatcher) runRead(
	ctx context.Context, h resource.ReadHandler,
	uri string, vars map[string]string,
) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = Errorf(KindInternal, "handler panic: %v", r)
		}
	}()

	return h(ctx, uri, vars)
}

// finish logs the invocation outcome and counts failures by kind.
func (d *Dispatcher) finish(log logrus.FieldLogger, component string, started time.Time, derr *Error) {
	elapsed := time.Since(started)

	if derr != nil {
		observability.ErrorsTotal.WithLabelValues(component, string(derr.Kind)).Inc()
		log.WithError(derr).WithFields(logrus.Fields{
			"kind":     derr.Kind,
			"duration": elapsed,
		}).Warn("Invocation failed")

		return
	}

	log.WithField("duration", elapsed).Debug("Invocation completed")
}

func statusLabel(derr *Error) string {
	if derr != nil {
		return "error"
	}

	return "success"
}

// uriScheme extracts the scheme for metric labels; unknown shapes collapse
// to "unknown" to keep label cardinality bounded.
func uriScheme(uri string) string {
	scheme, _, ok := strings.Cut(uri, "://")
	if !ok || scheme == "" {
		return "unknown"
	}

	return scheme
}
