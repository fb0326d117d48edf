package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends understood by the gateway.
const (
	BackendAzure = "azure"
	BackendLocal = "local"
)

// DefaultContainerName is used when STORAGE_CONTAINER_NAME is unset.
const DefaultContainerName = "data"

// blobEndpointTemplate is the public-cloud Blob service endpoint for an account.
const blobEndpointTemplate = "https://%s.blob.core.windows.net"

// ErrMissingAccountName is returned by Load when no storage account is configured.
var ErrMissingAccountName = errors.New("STORAGE_ACCOUNT_NAME must be set")

// Config holds the gateway configuration loaded from environment variables.
// It is built once at startup and never mutated afterwards.
type Config struct {
	// AccountName is the storage account identifier. Required.
	AccountName string

	// ContainerName is the single container every request operates on.
	// Default: data
	ContainerName string

	// Port is the HTTP port bound on all interfaces.
	// Default: 8080
	Port int

	// LogLevel controls the verbosity of logging (debug, info, warn, error).
	// Default: "info"
	LogLevel string

	// Backend selects the Store implementation: "azure" or "local".
	// Default: "azure"
	Backend string

	// DataDir is the root directory used by the local backend.
	// Default: ./data
	DataDir string

	// ShutdownTimeout bounds how long in-flight requests may run after SIGTERM.
	// Default: 30s
	ShutdownTimeout time.Duration
}

// Load reads the environment into a validated Config. Any invalid or missing
// required setting is reported as a single error and no Config is returned.
func Load() (*Config, error) {
	cfg := &Config{
		AccountName:     lookup("STORAGE_ACCOUNT_NAME", "AZURE_STORAGE_ACCOUNT_NAME"),
		ContainerName:   lookup("STORAGE_CONTAINER_NAME", "AZURE_STORAGE_CONTAINER_NAME"),
		Port:            8080,
		LogLevel:        "info",
		Backend:         BackendAzure,
		DataDir:         "./data",
		ShutdownTimeout: 30 * time.Second,
	}
	if cfg.ContainerName == "" {
		cfg.ContainerName = DefaultContainerName
	}

	if portStr := os.Getenv("HTTP_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP_PORT %q: %w", portStr, err)
		}
		cfg.Port = port
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = strings.ToLower(logLevel)
	}

	if backend := os.Getenv("STORAGE_BACKEND"); backend != "" {
		cfg.Backend = strings.ToLower(strings.TrimSpace(backend))
	}

	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		cfg.DataDir = dataDir
	}

	if timeout := os.Getenv("SHUTDOWN_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q: %w", timeout, err)
		}
		cfg.ShutdownTimeout = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate performs basic validation on the configuration.
func (c *Config) Validate() error {
	if c.AccountName == "" {
		return ErrMissingAccountName
	}
	if c.ContainerName == "" {
		return errors.New("container name cannot be empty")
	}
	if c.Port <= 0 || c.Port >= 65536 {
		return fmt.Errorf("invalid HTTP_PORT: %d (must be 1-65535)", c.Port)
	}
	switch c.Backend {
	case BackendAzure:
	case BackendLocal:
		if c.DataDir == "" {
			return errors.New("DATA_DIR cannot be empty for the local backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q (want %q or %q)", c.Backend, BackendAzure, BackendLocal)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %s", c.ShutdownTimeout)
	}
	return nil
}

// EndpointURL returns the Blob service URL derived from the account name.
func (c *Config) EndpointURL() string {
	return fmt.Sprintf(blobEndpointTemplate, c.AccountName)
}

// Addr returns the listen address on all interfaces.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// lookup returns the first non-empty value among the given variables.
func lookup(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
