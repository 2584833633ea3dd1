// Package settings holds the single user secret (the API key) the completion
// client reads on every request.
package settings

import (
	"context"
	"fmt"

	"grammar_enhancer/config"
)

// APIKey is the well-known key the secret lives under.
const APIKey = "apiKey"

// Store is a single-value key-value store. Get reports ok=false when no
// secret has been saved yet.
type Store interface {
	Get(ctx context.Context) (string, bool, error)
	Set(ctx context.Context, value string) error
}

// Open builds the backend named in cfg.
func Open(cfg config.SettingsConfig) (Store, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileStore(cfg.Path)
	case "sqlite":
		return OpenSQLite(cfg.Path)
	case "memory":
		return NewMemoryStore(""), nil
	default:
		return nil, fmt.Errorf("settings backend %s not supported", cfg.Backend)
	}
}

// Hint returns the tail of a secret that is safe to display.
func Hint(secret string) string {
	if len(secret) < 4 {
		return ""
	}
	return secret[len(secret)-4:]
}

// Close releases backends that hold resources.
func Close(s Store) error {
	if c, ok := s.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
