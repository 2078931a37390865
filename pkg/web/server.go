// Package web serves check-ins over HTTP. Each browser session walks its own
// flow; pages are rendered through a render.Registry so the same routes answer
// HTML forms and JSON clients.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwalk"
	"github.com/goliatone/go-formwalk/pkg/flow"
	"github.com/goliatone/go-formwalk/pkg/metrics"
	"github.com/goliatone/go-formwalk/pkg/question"
	"github.com/goliatone/go-formwalk/pkg/render"
	"github.com/goliatone/go-formwalk/pkg/schema"
	"github.com/goliatone/go-formwalk/pkg/store"
)

// Server is the HTTP front-end.
type Server struct {
	cfg         Config
	questions   []question.Question
	logger      *zap.Logger
	metrics     *metrics.Metrics
	store       store.Store
	registry    *render.Registry
	theme       *theme.RendererConfig
	flowOptions []flow.Option
	newID       func() string
	now         func() time.Time
	document    *openapi3.T
	sessions    *sessionSet
	engine      *gin.Engine
}

// New validates questions and builds the router.
func New(questions []question.Question, options ...Option) (*Server, error) {
	if err := question.Validate(questions); err != nil {
		return nil, fmt.Errorf("web: %w", err)
	}
	s := &Server{
		cfg:       DefaultConfig(),
		questions: question.CloneAll(questions),
		logger:    zap.NewNop(),
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.store == nil {
		s.store = store.NewMemory()
	}
	sessions, err := newSessionSet(s.cfg.MaxSessions, s.cfg.SessionTTL, s.now, s.sessionEvicted)
	if err != nil {
		return nil, fmt.Errorf("web: sessions: %w", err)
	}
	s.sessions = sessions
	if s.registry == nil {
		registry, err := formwalk.NewRegistry()
		if err != nil {
			return nil, fmt.Errorf("web: %w", err)
		}
		s.registry = registry
	}

	doc, err := schema.Document(context.Background(), s.questions)
	if err != nil {
		return nil, fmt.Errorf("web: %w", err)
	}
	s.document = doc
	s.engine = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.logger))
	if s.metrics != nil {
		router.Use(s.metrics.Middleware())
	}
	router.Use(rateLimiter(s.cfg.RateLimit, s.cfg.Burst))

	router.GET("/", s.handleStep)
	router.POST("/start", s.handleStart)
	router.POST("/answer", s.handleAnswer)
	router.GET("/answers", s.handleAnswers)
	router.GET("/openapi.json", s.handleOpenAPI)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.len()})
	})
	if s.metrics != nil {
		router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	return router
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("web: listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web: shutdown: %w", err)
	}
	return <-errCh
}
