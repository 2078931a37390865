package flow

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwalk/pkg/store"
	"github.com/goliatone/go-formwalk/pkg/walker"
)

// Option configures a Flow.
type Option func(*Flow)

// WithStore sets the store both blobs are written to.
func WithStore(s store.Store) Option {
	return func(f *Flow) {
		if s != nil {
			f.store = s
		}
	}
}

// WithLogger sets the logger passed down to the walker.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Flow) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithClock replaces time.Now for the greeting timestamp.
func WithClock(now func() time.Time) Option {
	return func(f *Flow) {
		if now != nil {
			f.now = now
		}
	}
}

// WithKeys overrides the store keys. Blank values keep the defaults.
func WithKeys(initialKey, answersKey string) Option {
	return func(f *Flow) {
		if k := strings.TrimSpace(initialKey); k != "" {
			f.initialKey = k
		}
		if k := strings.TrimSpace(answersKey); k != "" {
			f.answersKey = k
		}
	}
}

// WithObserver registers lifecycle callbacks, tagged with channel (for
// example "tui", "web" or "telegram").
func WithObserver(channel string, observer Observer) Option {
	return func(f *Flow) {
		if observer != nil {
			f.observer = observer
		}
		f.channel = channel
	}
}

// WithWalkerOptions appends options applied when the walker is created.
func WithWalkerOptions(options ...walker.Option) Option {
	return func(f *Flow) {
		f.walkerExtra = append(f.walkerExtra, options...)
	}
}
