// Package catalog provides a client for the external product catalog API.
package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config holds product catalog connection configuration.
type Config struct {
	// BaseURL is the base URL of the catalog API, e.g. "https://api.example.com".
	BaseURL string `yaml:"base_url"`

	// Timeout is the HTTP request timeout in seconds. Defaults to 30.
	Timeout int `yaml:"timeout"`
}

// Validate validates the catalog configuration. A missing or malformed base
// URL is a startup-time error, never a per-call one.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("catalog.base_url is required (set PRODUCTS_API_BASE_URL)")
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("catalog.base_url is malformed: %w", err)
	}

	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("catalog.base_url %q must include scheme and host", c.BaseURL)
	}

	return nil
}

// GetTimeout returns the configured timeout or the default (30 seconds).
func (c *Config) GetTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}

	return time.Duration(c.Timeout) * time.Second
}
