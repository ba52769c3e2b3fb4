package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogops/catalog-mcp/pkg/catalog"
	"github.com/catalogops/catalog-mcp/pkg/prompt"
	"github.com/catalogops/catalog-mcp/pkg/resource"
	"github.com/catalogops/catalog-mcp/pkg/schema"
	"github.com/catalogops/catalog-mcp/pkg/tool"
	"github.com/catalogops/catalog-mcp/pkg/uritemplate"
)

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	return log
}

func newDispatcher(t *testing.T) (*Dispatcher, *handlerFlags) {
	t.Helper()

	flags := &handlerFlags{}

	tools := tool.NewRegistry(testLogger())
	tools.Register(tool.Definition{
		Tool: mcp.Tool{Name: "echo", InputSchema: mcp.ToolInputSchema{Type: "object"}},
		Shape: schema.Shape{
			"text": {Kind: schema.String, Required: true},
		},
		Handler: func(_ context.Context, args schema.Values) (string, error) {
			flags.toolRan = true

			return args.String("text"), nil
		},
	})
	tools.Register(tool.Definition{
		Tool: mcp.Tool{Name: "boom", InputSchema: mcp.ToolInputSchema{Type: "object"}},
		Handler: func(_ context.Context, _ schema.Values) (string, error) {
			panic("unexpected state")
		},
	})
	tools.Register(tool.Definition{
		Tool: mcp.Tool{Name: "flaky", InputSchema: mcp.ToolInputSchema{Type: "object"}},
		Handler: func(_ context.Context, _ schema.Values) (string, error) {
			return "", &catalog.Error{Kind: catalog.ErrNetwork, Op: "list", Err: errors.New("connection refused")}
		},
	})

	resources := resource.NewRegistry(testLogger())
	resources.RegisterStatic(resource.StaticResource{
		Resource: mcp.NewResource("docs:///greeting", "Greeting", mcp.WithMIMEType("text/markdown")),
		Handler: func(_ context.Context, _ string, _ map[string]string) (string, error) {
			return "# Hello", nil
		},
	})
	resources.RegisterTemplate(resource.TemplateResource{
		Template: mcp.NewResourceTemplate("faqs://{q}", "FAQs", mcp.WithTemplateMIMEType("text/plain")),
		Pattern:  uritemplate.MustParse("faqs://{q}"),
		Handler: func(_ context.Context, _ string, vars map[string]string) (string, error) {
			return "answer:" + vars["q"], nil
		},
	})
	resources.RegisterTemplate(resource.TemplateResource{
		Template: mcp.NewResourceTemplate("broken://{x}", "Broken", mcp.WithTemplateMIMEType("text/plain")),
		Pattern:  uritemplate.MustParse("broken://{x}"),
		Handler: func(_ context.Context, _ string, _ map[string]string) (string, error) {
			return "", errors.New("disk on fire")
		},
	})

	prompts := prompt.NewRegistry(testLogger())
	prompts.Register(prompt.Definition{
		Prompt: mcp.Prompt{Name: "greet", Description: "Greet someone"},
		Shape: schema.Shape{
			"name": {Kind: schema.String, Required: true},
		},
		Handler: func(_ context.Context, args schema.Values) (string, error) {
			flags.promptRan = true

			return "Hello, " + args.String("name"), nil
		},
	})

	return New(testLogger(), tools, resources, prompts), flags
}

type handlerFlags struct {
	toolRan   bool
	promptRan bool
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	require.Len(t, result.Content, 1)

	tc, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "text", tc.Type)

	return tc.Text
}

func resourceText(t *testing.T, result *mcp.ReadResourceResult) (string, mcp.TextResourceContents) {
	t.Helper()

	require.Len(t, result.Contents, 1)

	rc, ok := result.Contents[0].(mcp.TextResourceContents)
	require.True(t, ok)

	return rc.Text, rc
}

func promptText(t *testing.T, result *mcp.GetPromptResult) string {
	t.Helper()

	require.Len(t, result.Messages, 1)
	assert.Equal(t, mcp.RoleUser, result.Messages[0].Role)

	tc, ok := result.Messages[0].Content.(mcp.TextContent)
	require.True(t, ok)

	return tc.Text
}

func TestCallToolSuccess(t *testing.T) {
	d, _ := newDispatcher(t)

	result := d.CallTool(context.Background(), "echo", map[string]any{"text": "hi"})

	assert.False(t, result.IsError)
	assert.Equal(t, "hi", toolText(t, result))
}

func TestCallToolUnknownName(t *testing.T) {
	d, _ := newDispatcher(t)

	result := d.CallTool(context.Background(), "nope", nil)

	assert.True(t, result.IsError)
	assert.Equal(t, "Error: unknown tool: nope", toolText(t, result))
}

func TestCallToolValidationFailureSkipsHandler(t *testing.T) {
	d, flags := newDispatcher(t)

	result := d.CallTool(context.Background(), "echo", map[string]any{"text": 42})

	assert.True(t, result.IsError)
	assert.True(t, strings.HasPrefix(toolText(t, result), "Error: "))
	assert.Contains(t, toolText(t, result), "text")
	assert.False(t, flags.toolRan, "handler must not run on invalid input")
}

func TestCallToolHandlerPanic(t *testing.T) {
	d, _ := newDispatcher(t)

	result := d.CallTool(context.Background(), "boom", nil)

	assert.True(t, result.IsError)
	assert.Contains(t, toolText(t, result), "handler panic")
}

func TestCallToolUpstreamFailure(t *testing.T) {
	d, _ := newDispatcher(t)

	result := d.CallTool(context.Background(), "flaky", nil)

	assert.True(t, result.IsError)

	text := toolText(t, result)
	assert.True(t, strings.HasPrefix(text, "Error: "))
	assert.Contains(t, text, "connection refused")
}

func TestCallToolEnvelopeIsStable(t *testing.T) {
	d, _ := newDispatcher(t)

	args := map[string]any{"text": "same"}
	first := d.CallTool(context.Background(), "echo", args)
	second := d.CallTool(context.Background(), "echo", args)

	// Same inputs produce byte-identical envelopes.
	assert.Equal(t, first, second)
}

func TestReadResourceStatic(t *testing.T) {
	d, _ := newDispatcher(t)

	result := d.ReadResource(context.Background(), "docs:///greeting")

	text, rc := resourceText(t, result)
	assert.Equal(t, "# Hello", text)
	assert.Equal(t, "docs:///greeting", rc.URI)
	assert.Equal(t, "text/markdown", rc.MIMEType)
}

func TestReadResourceTemplate(t *testing.T) {
	d, _ := newDispatcher(t)

	result := d.ReadResource(context.Background(), "faqs://login")

	text, rc := resourceText(t, result)
	assert.Equal(t, "answer:login", text)
	assert.Equal(t, "faqs://login", rc.URI)
	assert.Equal(t, "text/plain", rc.MIMEType)
}

func TestReadResourceUnknownURI(t *testing.T) {
	d, _ := newDispatcher(t)

	result := d.ReadResource(context.Background(), "nope://thing")

	text, rc := resourceText(t, result)
	assert.Equal(t, "Error: unknown resource URI: nope://thing", text)
	assert.Equal(t, "text/plain", rc.MIMEType)
}

func TestReadResourceHandlerFailure(t *testing.T) {
	d, _ := newDispatcher(t)

	result := d.ReadResource(context.Background(), "broken://x")

	text, _ := resourceText(t, result)
	assert.Equal(t, "Error: disk on fire", text)
}

func TestGetPromptSuccess(t *testing.T) {
	d, _ := newDispatcher(t)

	result := d.GetPrompt(context.Background(), "greet", map[string]string{"name": "Ada"})

	assert.Equal(t, "Greet someone", result.Description)
	assert.Equal(t, "Hello, Ada", promptText(t, result))
}

func TestGetPromptUnknownName(t *testing.T) {
	d, _ := newDispatcher(t)

	result := d.GetPrompt(context.Background(), "nope", nil)

	assert.Equal(t, "Error: unknown prompt: nope", promptText(t, result))
}

func TestGetPromptValidationFailureSkipsHandler(t *testing.T) {
	d, flags := newDispatcher(t)

	result := d.GetPrompt(context.Background(), "greet", nil)

	text := promptText(t, result)
	assert.True(t, strings.HasPrefix(text, "Error: "))
	assert.Contains(t, text, "name")
	assert.False(t, flags.promptRan, "handler must not run on invalid input")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback ErrorKind
		want     ErrorKind
	}{
		{
			name:     "tagged error keeps kind",
			err:      Errorf(KindResolution, "nope"),
			fallback: KindInternal,
			want:     KindResolution,
		},
		{
			name:     "validation error",
			err:      &schema.ValidationError{},
			fallback: KindInternal,
			want:     KindValidation,
		},
		{
			name:     "catalog error",
			err:      &catalog.Error{Kind: catalog.ErrStatus, Op: "get", Status: 500},
			fallback: KindInternal,
			want:     KindUpstream,
		},
		{
			name:     "unknown error gets fallback",
			err:      errors.New("mystery"),
			fallback: KindResourceRead,
			want:     KindResourceRead,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err, tt.fallback)
			assert.Equal(t, tt.want, got.Kind)
		})
	}
}

func TestURIScheme(t *testing.T) {
	assert.Equal(t, "faqs", uriScheme("faqs://login"))
	assert.Equal(t, "docs", uriScheme("docs:///policy/shopping.md"))
	assert.Equal(t, "unknown", uriScheme("no-scheme-here"))
	assert.Equal(t, "unknown", uriScheme("://empty"))
}
