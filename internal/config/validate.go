package config

import (
	"fmt"
	"net/url"

	"github.com/taskpilot/taskpilot/internal/errors"
)

// Validate checks the configuration for invalid values.
// Returns a sentinel-wrapped error describing the first problem found.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if cfg.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url cannot be empty", errors.ErrConfigInvalidAPI)
	}

	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: api.base_url %q is not an absolute URL", errors.ErrConfigInvalidAPI, cfg.API.BaseURL)
	}

	if cfg.API.Timeout < 0 {
		return fmt.Errorf("%w: api.timeout cannot be negative", errors.ErrConfigInvalidAPI)
	}

	return nil
}
