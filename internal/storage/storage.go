// Package storage persists the engine's JSON snapshot. The engine treats a
// provider as an opaque blob store keyed by namespace; the providers differ
// only in where the blob lives.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// ErrNotFound is returned by Load when nothing was saved under a namespace.
var ErrNotFound = errors.New("snapshot not found")

type Provider interface {
	// Init prepares the backend (directories, schema) and must be safe to
	// call on an already initialized backend.
	Init() error
	// Open connects to an initialized backend and validates its schema.
	Open() error
	Load(namespace string) ([]byte, error)
	Save(namespace string, data []byte) error
	Close() error
	// Location describes where data lives without exposing credentials.
	Location() string
}

// Versioned is implemented by providers with a migrated SQL schema.
type Versioned interface {
	SchemaVersion() (current, latest int, err error)
}

const (
	diskvScheme = "diskv://"
)

// IsPostgres reports whether config names a PostgreSQL database.
func IsPostgres(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

func IsDiskv(config string) bool {
	return strings.HasPrefix(config, diskvScheme)
}

// New picks a provider from config: a postgres:// URL, a diskv://<dir>
// directory, or otherwise a SQLite file path.
func New(config string) (Provider, error) {
	switch {
	case IsPostgres(config):
		if ok, err := ValidateConnString(config); !ok {
			return nil, err
		}
		return NewPostgresStore(config), nil
	case IsDiskv(config):
		dir, err := ResolvePath(strings.TrimPrefix(config, diskvScheme))
		if err != nil {
			return nil, err
		}
		return NewDiskvStore(dir), nil
	default:
		path, err := ResolvePath(config)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(path), nil
	}
}

// ResolvePath expands a leading ~ and makes the path absolute.
func ResolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("storage path cannot be empty")
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand %s: %w", path, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return abs, nil
}
