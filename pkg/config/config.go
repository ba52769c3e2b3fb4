// Package config provides configuration loading for the catalog MCP server.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// BaseURLEnvVar is the environment variable supplying the catalog base URL
// when the config file does not set it.
const BaseURLEnvVar = "PRODUCTS_API_BASE_URL"

// Config is the main configuration structure.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Catalog       CatalogConfig       `yaml:"catalog"`
	Docs          DocsConfig          `yaml:"docs"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	BaseURL   string `yaml:"base_url"`
	Transport string `yaml:"transport"`
}

// CatalogConfig holds product catalog API configuration.
type CatalogConfig struct {
	// BaseURL is the base address of the catalog API. When unset it is
	// filled from the PRODUCTS_API_BASE_URL environment variable.
	BaseURL string `yaml:"base_url"`

	// Timeout is the HTTP request timeout in seconds.
	Timeout int `yaml:"timeout"`
}

// DocsConfig holds static document configuration.
type DocsConfig struct {
	// PolicyPath is the local path of the shopping policy document served
	// at docs:///policy/shopping.md.
	PolicyPath string `yaml:"policy_path"`
}

// ObservabilityConfig holds observability configuration.
type ObservabilityConfig struct {
	MetricsEnabled bool `yaml:"metrics_enabled"`
	MetricsPort    int  `yaml:"metrics_port"`
}

// envVarPattern matches ${VAR_NAME} patterns for environment variable substitution.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load loads configuration from a YAML file with environment variable
// substitution. A missing file is not an error unless an explicit path was
// given; in that case defaults plus environment variables apply, so the
// server can run with nothing but PRODUCTS_API_BASE_URL set.
func Load(path string) (*Config, error) {
	explicit := path != ""

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "config.yaml"
		}
	}

	var cfg Config

	data, err := os.ReadFile(path)

	switch {
	case err == nil:
		substituted, serr := substituteEnvVars(string(data))
		if serr != nil {
			return nil, fmt.Errorf("substituting env vars: %w", serr)
		}

		if uerr := yaml.Unmarshal([]byte(substituted), &cfg); uerr != nil {
			return nil, fmt.Errorf("parsing config: %w", uerr)
		}
	case os.IsNotExist(err) && !explicit:
		// Run on defaults and environment alone.
	default:
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// substituteEnvVars replaces ${VAR_NAME} patterns with environment variable values.
// Lines that are comments (starting with #) are skipped to allow commented optional
// sections in config files without requiring their environment variables to be set.
func substituteEnvVars(content string) (string, error) {
	var missingVars []string

	lines := strings.Split(content, "\n")

	for i, line := range lines {
		// Skip lines that are YAML comments.
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			continue
		}

		lines[i] = envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
			varName := envVarPattern.FindStringSubmatch(match)[1]
			value := os.Getenv(varName)
			if value == "" {
				missingVars = append(missingVars, varName)
				return match
			}

			return value
		})
	}

	if len(missingVars) > 0 {
		return "", fmt.Errorf("missing environment variables: %v", missingVars)
	}

	return strings.Join(lines, "\n"), nil
}

// applyDefaults sets default values for configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8750
	}

	if cfg.Server.Transport == "" {
		cfg.Server.Transport = "stdio"
	}

	if cfg.Catalog.BaseURL == "" {
		cfg.Catalog.BaseURL = os.Getenv(BaseURLEnvVar)
	}

	if cfg.Catalog.Timeout == 0 {
		cfg.Catalog.Timeout = 30
	}

	if cfg.Docs.PolicyPath == "" {
		cfg.Docs.PolicyPath = "docs/policy/shopping.md"
	}

	if cfg.Observability.MetricsPort == 0 {
		cfg.Observability.MetricsPort = 8751
	}
}

// Validate checks the configuration for startup-time errors.
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case "stdio", "sse", "streamable-http":
	default:
		return fmt.Errorf("unknown transport: %s", c.Server.Transport)
	}

	if c.Catalog.BaseURL == "" {
		return errors.New("catalog.base_url is required (set " + BaseURLEnvVar + ")")
	}

	return nil
}
