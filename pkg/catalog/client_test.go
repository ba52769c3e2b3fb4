package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string) Client {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	c, err := NewClient(log, &Config{BaseURL: baseURL})
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))

	t.Cleanup(func() {
		require.NoError(t, c.Stop())
	})

	return c
}

func TestClientListProducts(t *testing.T) {
	body := `[{"id":"1","name":"Widget","price":9.99}]`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	raw, err := c.ListProducts(context.Background())
	require.NoError(t, err)

	// The body must pass through byte for byte.
	assert.Equal(t, body, string(raw))
}

func TestClientGetProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products/abc-123", r.URL.Path)

		_, _ = w.Write([]byte(`{"id":"abc-123","name":"Widget"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	raw, err := c.GetProduct(context.Background(), "abc-123")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"abc-123","name":"Widget"}`, string(raw))
}

func TestClientCreateProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var p NewProduct
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		assert.Equal(t, "Widget", p.Name)
		assert.Equal(t, 9.99, p.Price)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"new-1"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	raw, err := c.CreateProduct(context.Background(), NewProduct{
		Name:        "Widget",
		Price:       9.99,
		Description: "A widget",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"id":"new-1"}`, string(raw))
}

func TestClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	_, err := c.GetProduct(context.Background(), "missing")
	require.Error(t, err)

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrStatus, cerr.Kind)
	assert.Equal(t, http.StatusNotFound, cerr.Status)
}

func TestClientDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	_, err := c.ListProducts(context.Background())
	require.Error(t, err)

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrDecode, cerr.Kind)
}

func TestClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	srv.Close()

	c := newTestClient(t, srv.URL)

	_, err := c.ListProducts(context.Background())
	require.Error(t, err)

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrNetwork, cerr.Kind)
}

func TestClientNotStarted(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	c, err := NewClient(log, &Config{BaseURL: "http://localhost:9"})
	require.NoError(t, err)

	_, err = c.ListProducts(context.Background())
	assert.ErrorContains(t, err, "not started")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing base url",
			cfg:     Config{},
			wantErr: "base_url is required",
		},
		{
			name:    "no scheme",
			cfg:     Config{BaseURL: "localhost:8080"},
			wantErr: "must include scheme and host",
		},
		{
			name: "valid",
			cfg:  Config{BaseURL: "https://api.example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
