package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwalk/pkg/flow"
	"github.com/goliatone/go-formwalk/pkg/render"
	"github.com/goliatone/go-formwalk/pkg/store"
	"github.com/goliatone/go-formwalk/pkg/walker"
)

func (s *Server) handleStep(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		draft, err := s.draft()
		if err != nil {
			s.internalError(c, err)
			return
		}
		sess = draft
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.respond(c, sess, http.StatusOK, nil)
}

func (s *Server) handleStart(c *gin.Context) {
	dayMood := c.PostForm("dayMood")
	sess, ok := s.lookup(c)
	if !ok {
		var err error
		if strings.TrimSpace(dayMood) == "" {
			// Rejected greetings do not start a session.
			if sess, err = s.draft(); err == nil {
				s.afterPost(c, sess, flow.ErrEmptyResponse)
				return
			}
		} else {
			sess, err = s.startSession(c)
		}
		if err != nil {
			s.internalError(c, err)
			return
		}
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	err := sess.flow.SubmitInitial(c.Request.Context(), dayMood)
	s.afterPost(c, sess, err)
}

func (s *Server) handleAnswer(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		draft, err := s.draft()
		if err != nil {
			s.internalError(c, err)
			return
		}
		sess = draft
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	err := answer(c.Request.Context(), sess.flow, c.PostForm("question"), c.PostForm("value"), c.PostForm("extra"))
	s.afterPost(c, sess, err)
}

// answer applies one form post to the current question. A question id that
// does not match the current question means the page was stale.
func answer(ctx context.Context, f *flow.Flow, id, value, extra string) error {
	if f.Stage() != flow.StageQuestions {
		return fmt.Errorf("%w: %s", flow.ErrWrongStage, f.Stage())
	}
	current, _ := f.Walker().Current()
	if id != "" && id != current.ID {
		return fmt.Errorf("%w: stale question %q", flow.ErrWrongStage, id)
	}
	if strings.TrimSpace(value) != "" {
		if err := f.Record(value); err != nil {
			return err
		}
	}
	if current.AllowExtra {
		if err := f.RecordExtra(extra); err != nil {
			return err
		}
	}
	_, err := f.Submit(ctx)
	return err
}

func (s *Server) handleAnswers(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no check-in in progress"})
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.flow.Stage() != flow.StageFinished {
		c.JSON(http.StatusNotFound, gin.H{"error": "check-in not finished"})
		return
	}
	_, key := sess.flow.Keys()
	blob, err := sess.store.Get(c.Request.Context(), key)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "answers not found"})
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", blob)
}

func (s *Server) handleOpenAPI(c *gin.Context) {
	c.JSON(http.StatusOK, s.document)
}

// afterPost answers a form post. HTML clients follow the post/redirect/get
// pattern on success; JSON clients receive the next step directly. Failures
// re-render the current step with the error message.
func (s *Server) afterPost(c *gin.Context, sess *session, err error) {
	if err == nil {
		renderer, nerr := s.negotiate(c)
		if nerr == nil && strings.HasPrefix(renderer.ContentType(), "text/html") {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
		s.respond(c, sess, http.StatusOK, nil)
		return
	}

	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		s.logger.Error("submission failed", zap.String("session", sess.id), zap.Error(err))
	} else {
		s.logger.Debug("submission rejected", zap.String("session", sess.id), zap.Error(err))
	}
	s.respond(c, sess, status, []string{render.Message(err)})
}

func (s *Server) negotiate(c *gin.Context) (render.Renderer, error) {
	return s.registry.Negotiate(c.Query("format"), c.GetHeader("Accept"))
}

func (s *Server) respond(c *gin.Context, sess *session, status int, errs []string) {
	renderer, err := s.negotiate(c)
	if err != nil {
		c.JSON(http.StatusNotAcceptable, gin.H{"error": err.Error()})
		return
	}
	out, err := renderer.Render(c.Request.Context(), render.NewStep(sess.flow), render.RenderOptions{
		Errors: errs,
		Theme:  s.theme,
	})
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.Data(status, renderer.ContentType(), out)
}

func (s *Server) internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": render.MessageUnexpected})
}

// StatusFor maps flow and walker errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, flow.ErrEmptyResponse),
		errors.Is(err, walker.ErrNoAnswer),
		errors.Is(err, walker.ErrInvalidAnswer),
		errors.Is(err, walker.ErrExtraNotAllowed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, flow.ErrWrongStage), errors.Is(err, walker.ErrCompleted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
