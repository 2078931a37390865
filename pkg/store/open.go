package store

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendMinIO    = "minio"
	BackendFirebase = "firebase"
)

// Config selects and configures a backend. Only the section matching Backend
// is read.
type Config struct {
	Backend  string         `mapstructure:"backend"`
	Path     string         `mapstructure:"path"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Firebase FirebaseConfig `mapstructure:"firebase"`
}

// SQLiteConfig configures the SQLite backend.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// Open builds the backend named by cfg.Backend. An empty name selects the
// in-memory store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		return NewFile(cfg.Path)
	case BackendSQLite:
		return NewSQLite(ctx, cfg.SQLite.Path)
	case BackendMinIO:
		return NewMinIO(ctx, cfg.MinIO)
	case BackendFirebase:
		return NewFirebase(ctx, cfg.Firebase)
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend)
	}
}
