package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("store: key not found")

// ErrEmptyKey is returned when a blank key is used.
var ErrEmptyKey = errors.New("store: key is required")

// Store is a string-keyed blob store. Values are opaque bytes; callers in
// this module write JSON documents. Implementations are safe for concurrent
// use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// WithPrefix namespaces every key of base under prefix ("prefix/key"). Close
// is a no-op so several prefixed views can share one backend.
func WithPrefix(base Store, prefix string) Store {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return base
	}
	return &prefixed{base: base, prefix: prefix}
}

type prefixed struct {
	base   Store
	prefix string
}

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, error) {
	full, err := p.key(key)
	if err != nil {
		return nil, err
	}
	return p.base.Get(ctx, full)
}

func (p *prefixed) Set(ctx context.Context, key string, value []byte) error {
	full, err := p.key(key)
	if err != nil {
		return err
	}
	return p.base.Set(ctx, full, value)
}

func (p *prefixed) Close() error {
	return nil
}

func (p *prefixed) key(key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	return p.prefix + "/" + key, nil
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	return nil
}

func copyBytes(in []byte) []byte {
	if in == nil {
		return nil
	}
	return append([]byte(nil), in...)
}

func wrapf(backend, op, key string, err error) error {
	return fmt.Errorf("store: %s %s %q: %w", backend, op, key, err)
}
