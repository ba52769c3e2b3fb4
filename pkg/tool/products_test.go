package tool

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogops/catalog-mcp/pkg/catalog"
	"github.com/catalogops/catalog-mcp/pkg/schema"
)

// fakeCatalog implements catalog.Client for handler tests.
type fakeCatalog struct {
	listRaw   json.RawMessage
	listErr   error
	getRaw    json.RawMessage
	getErr    error
	gotID     string
	createRaw json.RawMessage
	createErr error
	created   *catalog.NewProduct
}

func (f *fakeCatalog) Start(_ context.Context) error { return nil }
func (f *fakeCatalog) Stop() error                   { return nil }

func (f *fakeCatalog) ListProducts(_ context.Context) (json.RawMessage, error) {
	return f.listRaw, f.listErr
}

func (f *fakeCatalog) GetProduct(_ context.Context, id string) (json.RawMessage, error) {
	f.gotID = id

	return f.getRaw, f.getErr
}

func (f *fakeCatalog) CreateProduct(_ context.Context, p catalog.NewProduct) (json.RawMessage, error) {
	f.created = &p

	return f.createRaw, f.createErr
}

var _ catalog.Client = (*fakeCatalog)(nil)

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	return log
}

func TestListProductsTool(t *testing.T) {
	fake := &fakeCatalog{listRaw: json.RawMessage(`[{"id":"1"}]`)}
	def := NewListProductsTool(testLogger(), fake)

	assert.Equal(t, ListProductsToolName, def.Tool.Name)
	assert.Nil(t, def.Shape)

	text, err := def.Handler(context.Background(), schema.Values{})
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, text)
}

func TestGetProductTool(t *testing.T) {
	fake := &fakeCatalog{getRaw: json.RawMessage(`{"id":"42","name":"Widget"}`)}
	def := NewGetProductTool(testLogger(), fake)

	assert.Equal(t, GetProductToolName, def.Tool.Name)
	assert.Contains(t, def.Tool.InputSchema.Required, "id")

	text, err := def.Handler(context.Background(), schema.Values{"id": "42"})
	require.NoError(t, err)
	assert.Equal(t, "42", fake.gotID)
	assert.Equal(t, `{"id":"42","name":"Widget"}`, text)
}

func TestAddProductTool(t *testing.T) {
	fake := &fakeCatalog{createRaw: json.RawMessage(`{"id":"new-1"}`)}
	def := NewAddProductTool(testLogger(), fake)

	assert.Equal(t, AddProductToolName, def.Tool.Name)
	assert.ElementsMatch(t, []string{"name", "price", "description"}, def.Tool.InputSchema.Required)

	text, err := def.Handler(context.Background(), schema.Values{
		"name":        "Widget",
		"price":       9.99,
		"description": "A widget",
	})
	require.NoError(t, err)
	require.NotNil(t, fake.created)
	assert.Equal(t, "Widget", fake.created.Name)
	assert.Equal(t, 9.99, fake.created.Price)
	assert.Equal(t, "A widget", fake.created.Description)
	assert.Equal(t, `{"id":"new-1"}`, text)
}

func TestToolHandlerPropagatesUpstreamError(t *testing.T) {
	upstream := &catalog.Error{Kind: catalog.ErrStatus, Op: "get", Status: 503}
	fake := &fakeCatalog{getErr: upstream}
	def := NewGetProductTool(testLogger(), fake)

	_, err := def.Handler(context.Background(), schema.Values{"id": "42"})
	require.Error(t, err)

	var cerr *catalog.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, catalog.ErrStatus, cerr.Kind)
}

func TestRegistryLastWriteWins(t *testing.T) {
	reg := NewRegistry(testLogger())

	first := NewListProductsTool(testLogger(), &fakeCatalog{listRaw: json.RawMessage(`"first"`)})
	second := NewListProductsTool(testLogger(), &fakeCatalog{listRaw: json.RawMessage(`"second"`)})

	reg.Register(first)
	reg.Register(second)

	assert.Len(t, reg.List(), 1)

	def, ok := reg.Get(ListProductsToolName)
	require.True(t, ok)

	text, err := def.Handler(context.Background(), schema.Values{})
	require.NoError(t, err)
	assert.Equal(t, `"second"`, text)
}

func TestRegistryPreservesOrder(t *testing.T) {
	reg := NewRegistry(testLogger())
	fake := &fakeCatalog{}

	reg.Register(NewListProductsTool(testLogger(), fake))
	reg.Register(NewGetProductTool(testLogger(), fake))
	reg.Register(NewAddProductTool(testLogger(), fake))

	names := make([]string, 0, 3)
	for _, tl := range reg.List() {
		names = append(names, tl.Name)
	}

	assert.Equal(t, []string{ListProductsToolName, GetProductToolName, AddProductToolName}, names)
}
