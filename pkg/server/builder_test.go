package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogops/catalog-mcp/pkg/config"
	"github.com/catalogops/catalog-mcp/pkg/prompt"
	"github.com/catalogops/catalog-mcp/pkg/resource"
	"github.com/catalogops/catalog-mcp/pkg/tool"
)

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	return log
}

func TestBuildDispatcherWiresEverything(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	cfg := &config.Config{
		Server:  config.ServerConfig{Transport: "stdio"},
		Catalog: config.CatalogConfig{BaseURL: srv.URL},
		Docs:    config.DocsConfig{PolicyPath: "does-not-exist.md"},
	}

	builder := NewBuilder(testLogger(), cfg)

	dispatcher, client, err := builder.BuildDispatcher(context.Background())
	require.NoError(t, err)

	defer func() { require.NoError(t, client.Stop()) }()

	// All three product tools are registered in order.
	names := make([]string, 0, 3)
	for _, tl := range dispatcher.Tools().List() {
		names = append(names, tl.Name)
	}

	assert.Equal(t, []string{
		tool.ListProductsToolName,
		tool.GetProductToolName,
		tool.AddProductToolName,
	}, names)

	// The policy resource and FAQ template both resolve.
	_, ok := dispatcher.Resources().Resolve(resource.PolicyResourceURI)
	assert.True(t, ok)

	_, ok = dispatcher.Resources().Resolve("faqs://login")
	assert.True(t, ok)

	// The welcome prompt is registered.
	_, ok = dispatcher.Prompts().Get(prompt.CustomerWelcomePromptName)
	assert.True(t, ok)

	// The wired client reaches the upstream.
	result := dispatcher.CallTool(context.Background(), tool.ListProductsToolName, nil)
	assert.False(t, result.IsError)
}

func TestBuildFailsOnBadCatalogConfig(t *testing.T) {
	cfg := &config.Config{
		Server:  config.ServerConfig{Transport: "stdio"},
		Catalog: config.CatalogConfig{BaseURL: ""},
	}

	builder := NewBuilder(testLogger(), cfg)

	_, err := builder.Build(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "base_url")
}
