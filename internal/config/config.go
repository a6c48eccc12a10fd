// Package config provides configuration management for TaskPilot with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. Environment variables (TASKPILOT_* prefix)
//  2. Global config (~/.taskpilot/config.yaml)
//  3. Built-in defaults
//
// The base URL is resolved once at startup; every dispatcher call uses the
// resolved value.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import "time"

// Config is the root configuration structure for TaskPilot.
type Config struct {
	// API contains settings for the backend REST service.
	API APIConfig `yaml:"api" mapstructure:"api"`
}

// APIConfig contains settings for reaching the backend.
type APIConfig struct {
	// BaseURL is the root of the REST service, including any path prefix.
	// Default: "http://localhost:5000/api/v1"
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout is the transport-level timeout applied to the HTTP client.
	// The dispatcher itself enforces no timeout; this is the only bound on
	// a request's lifetime. Default: 30s
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}
