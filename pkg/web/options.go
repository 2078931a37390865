package web

import (
	"time"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwalk/pkg/flow"
	"github.com/goliatone/go-formwalk/pkg/metrics"
	"github.com/goliatone/go-formwalk/pkg/render"
	"github.com/goliatone/go-formwalk/pkg/store"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "formwalk_session"

// Config holds the listener and request limits.
type Config struct {
	Addr            string        `mapstructure:"addr"`
	RateLimit       float64       `mapstructure:"rate_limit"`
	Burst           int           `mapstructure:"burst"`
	CookieSecure    bool          `mapstructure:"cookie_secure"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// MaxSessions caps the sessions held in memory; the least recently used
	// one is released when a new session would exceed it.
	MaxSessions int `mapstructure:"max_sessions"`
	// SessionTTL releases sessions idle for longer. Zero keeps them until
	// MaxSessions pushes them out.
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// DefaultConfig returns the settings used when none are supplied.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		RateLimit:       20,
		Burst:           40,
		ShutdownTimeout: 5 * time.Second,
		MaxSessions:     10000,
		SessionTTL:      24 * time.Hour,
	}
}

// Option configures a Server.
type Option func(*Server)

// WithConfig replaces the default Config. Zero fields keep their defaults.
func WithConfig(cfg Config) Option {
	return func(s *Server) {
		if cfg.Addr != "" {
			s.cfg.Addr = cfg.Addr
		}
		if cfg.RateLimit != 0 {
			s.cfg.RateLimit = cfg.RateLimit
		}
		if cfg.Burst != 0 {
			s.cfg.Burst = cfg.Burst
		}
		if cfg.ShutdownTimeout > 0 {
			s.cfg.ShutdownTimeout = cfg.ShutdownTimeout
		}
		if cfg.MaxSessions > 0 {
			s.cfg.MaxSessions = cfg.MaxSessions
		}
		if cfg.SessionTTL > 0 {
			s.cfg.SessionTTL = cfg.SessionTTL
		}
		s.cfg.CookieSecure = cfg.CookieSecure
	}
}

// WithLogger sets the request and session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics enables request metrics, check-in counters and GET /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithStore sets the backend sessions persist into. Each session writes
// below "sessions/<id>/".
func WithStore(st store.Store) Option {
	return func(s *Server) {
		if st != nil {
			s.store = st
		}
	}
}

// WithRegistry replaces the default renderer set.
func WithRegistry(registry *render.Registry) Option {
	return func(s *Server) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithTheme passes a resolved theme to every render.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *Server) {
		s.theme = cfg
	}
}

// WithFlowOptions appends options applied to every session flow.
func WithFlowOptions(options ...flow.Option) Option {
	return func(s *Server) {
		s.flowOptions = append(s.flowOptions, options...)
	}
}

// WithSessionIDs replaces the uuid session id generator.
func WithSessionIDs(next func() string) Option {
	return func(s *Server) {
		if next != nil {
			s.newID = next
		}
	}
}

// WithClock replaces time.Now for session expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}
