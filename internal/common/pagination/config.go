// Package pagination provides a reusable pagination framework for the
// summary history listing, offset-based today with room for a cursor
// strategy later.
package pagination

import (
	pkgconfig "docsum/pkg/config"
)

// Config holds pagination configuration settings.
// These values can be loaded from environment variables or config files.
type Config struct {
	DefaultPage  int // Default page number (typically 1)
	DefaultLimit int // Default items per page (typically 20)
	MaxLimit     int // Maximum allowed items per page (typically 100)
}

// DefaultConfig returns the default pagination configuration.
// Default values: page=1, limit=20, max=100
func DefaultConfig() Config {
	return Config{
		DefaultPage:  1,
		DefaultLimit: 20,
		MaxLimit:     100,
	}
}

// LoadFromEnv loads pagination config from environment variables.
// Supported environment variables:
//   - PAGINATION_DEFAULT_PAGE: Default page number
//   - PAGINATION_DEFAULT_LIMIT: Default items per page
//   - PAGINATION_MAX_LIMIT: Maximum items per page
//
// Falls back to DefaultConfig() if environment variables are not set.
func LoadFromEnv() Config {
	return Config{
		DefaultPage:  pkgconfig.GetEnvInt("PAGINATION_DEFAULT_PAGE", 1),
		DefaultLimit: pkgconfig.GetEnvInt("PAGINATION_DEFAULT_LIMIT", 20),
		MaxLimit:     pkgconfig.GetEnvInt("PAGINATION_MAX_LIMIT", 100),
	}
}
