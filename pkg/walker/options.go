package walker

import (
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwalk/pkg/store"
)

// Option configures a Walker.
type Option func(*Walker)

// WithStore sets the store the completed answer set is written to. Without
// it answers go to a private in-memory store.
func WithStore(s store.Store) Option {
	return func(w *Walker) {
		if s != nil {
			w.store = s
		}
	}
}

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(w *Walker) {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			w.key = trimmed
		}
	}
}

// WithLogger sets the logger used to report the completed answer set.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Walker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithOnComplete registers a hook run after the answers are persisted.
func WithOnComplete(fn CompleteFunc) Option {
	return func(w *Walker) {
		w.onComplete = fn
	}
}
