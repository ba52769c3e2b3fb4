package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/catalogops/catalog-mcp/pkg/observability"
)

const productsPath = "/products"

// NewProduct is the record submitted when creating a product.
type NewProduct struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// Client defines the interface for the product catalog API.
type Client interface {
	// Start initializes the HTTP client.
	Start(ctx context.Context) error

	// Stop shuts down the client and releases resources.
	Stop() error

	// ListProducts fetches the full product collection.
	ListProducts(ctx context.Context) (json.RawMessage, error)

	// GetProduct fetches a single product by identifier.
	GetProduct(ctx context.Context, id string) (json.RawMessage, error)

	// CreateProduct creates a product from the given record.
	CreateProduct(ctx context.Context, p NewProduct) (json.RawMessage, error)
}

// Ensure client implements Client interface.
var _ Client = (*client)(nil)

// client is the HTTP-based implementation of the Client interface.
type client struct {
	log        logrus.FieldLogger
	cfg        *Config
	httpClient *http.Client
	mu         sync.RWMutex
}

// NewClient creates a new catalog client. The configuration is validated
// here so a bad base URL fails at startup. The client must be started with
// Start() before use.
func NewClient(log logrus.FieldLogger, cfg *Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &client{
		log: log.WithField("component", "catalog"),
		cfg: cfg,
	}, nil
}

// Start initializes the HTTP client.
func (c *client) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.httpClient = &http.Client{
		Timeout: c.cfg.GetTimeout(),
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	c.log.WithField("base_url", c.cfg.BaseURL).Info("Catalog client started")

	return nil
}

// Stop shuts down the HTTP client.
func (c *client) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
		c.httpClient = nil
	}

	c.log.Info("Catalog client stopped")

	return nil
}

// ListProducts fetches the full product collection.
func (c *client) ListProducts(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, "list", http.MethodGet, productsPath, nil)
}

// GetProduct fetches a single product by identifier.
func (c *client) GetProduct(ctx context.Context, id string) (json.RawMessage, error) {
	return c.call(ctx, "get", http.MethodGet, productsPath+"/"+url.PathEscape(id), nil)
}

// CreateProduct creates a product from the given record.
func (c *client) CreateProduct(ctx context.Context, p NewProduct) (json.RawMessage, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshaling product: %w", err)
	}

	return c.call(ctx, "create", http.MethodPost, productsPath, body)
}

// call performs one request against the catalog API and returns the raw JSON
// body. Failures are typed per kind; no retries are performed.
func (c *client) call(ctx context.Context, op, method, path string, body []byte) (json.RawMessage, error) {
	c.mu.RLock()
	httpClient := c.httpClient
	c.mu.RUnlock()

	if httpClient == nil {
		return nil, fmt.Errorf("client not started: call Start() first")
	}

	started := time.Now()

	raw, err := c.do(ctx, httpClient, op, method, path, body)

	status := "success"
	if err != nil {
		status = "error"
	}

	observability.UpstreamRequestsTotal.WithLabelValues(op, status).Inc()
	observability.UpstreamRequestDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())

	return raw, err
}

func (c *client) do(
	ctx context.Context, httpClient *http.Client,
	op, method, path string, body []byte,
) (json.RawMessage, error) {
	fullURL := strings.TrimSuffix(c.cfg.BaseURL, "/") + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: ErrNetwork, Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: ErrNetwork, Op: op, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.log.WithFields(logrus.Fields{
			"op":     op,
			"status": resp.StatusCode,
		}).Debug("Catalog request failed")

		return nil, &Error{Kind: ErrStatus, Op: op, Status: resp.StatusCode}
	}

	// The body is passed through verbatim, but it must at least be JSON.
	var probe any
	if err := json.Unmarshal(respBody, &probe); err != nil {
		return nil, &Error{Kind: ErrDecode, Op: op, Err: err}
	}

	return respBody, nil
}
