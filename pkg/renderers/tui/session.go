package tui

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwalk/pkg/flow"
	"github.com/goliatone/go-formwalk/pkg/render"
	"github.com/goliatone/go-formwalk/pkg/walker"
)

// Session drives a flow from the terminal: greeting, one prompt per question
// and the closing panel. Empty or invalid answers are reported and asked
// again; Ctrl+C ends the session with ErrAborted.
type Session struct {
	driver    PromptDriver
	styles    Styles
	multiline bool
	logger    *zap.Logger
}

// NewSession returns a session using the survey driver on stdout.
func NewSession(options ...Option) *Session {
	s := &Session{
		driver: NewSurveyDriver(nil),
		styles: NewStyles(false),
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Run walks f to completion. A flow already past the greeting resumes at its
// current question.
func (s *Session) Run(ctx context.Context, f *flow.Flow) error {
	if s.driver == nil {
		return ErrNoDriver
	}
	if f.Stage() == flow.StageGreeting {
		if err := s.driver.Info(ctx, s.styles.Title(flow.Title)); err != nil {
			return err
		}
		if err := s.greeting(ctx, f); err != nil {
			return err
		}
	}
	if f.Stage() == flow.StageQuestions {
		if err := s.driver.Info(ctx, s.styles.Muted(flow.QuestionsIntro)); err != nil {
			return err
		}
	}
	for f.Stage() == flow.StageQuestions {
		if err := s.question(ctx, f); err != nil {
			return err
		}
	}
	return s.driver.Info(ctx, s.styles.Thanks(flow.ThanksTitle, flow.ThanksBody))
}

func (s *Session) greeting(ctx context.Context, f *flow.Flow) error {
	for {
		text, err := s.driver.TextArea(ctx, TextAreaConfig{
			Message: flow.GreetingPrompt,
			Help:    flow.GreetingHint,
		})
		if err != nil {
			return err
		}
		err = f.SubmitInitial(ctx, text)
		if err == nil {
			return nil
		}
		if !errors.Is(err, flow.ErrEmptyResponse) {
			return err
		}
		if err := s.warn(ctx, err); err != nil {
			return err
		}
	}
}

// question asks the current question once. Recoverable answer errors are
// reported and leave the flow where it was, so the caller's loop asks again.
func (s *Session) question(ctx context.Context, f *flow.Flow) error {
	step := render.NewStep(f)
	q := step.Question
	if q == nil {
		return ErrNoQuestion
	}
	message := fmt.Sprintf("[%s] %s", step.Position(), q.Prompt)

	var value any
	if len(q.Choices) > 0 {
		labels := make([]string, len(q.Choices))
		selected := 0
		for i, c := range q.Choices {
			labels[i] = c.Label
			if c.Selected {
				selected = i
			}
		}
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      labels,
			DefaultIndex: selected,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(q.Choices) {
			return s.warn(ctx, walker.ErrInvalidAnswer)
		}
		value = q.Choices[idx].Value
	} else {
		text, err := s.askText(ctx, message, q.Answer)
		if err != nil {
			return err
		}
		value = text
	}

	if err := f.Record(value); err != nil {
		return s.retryable(ctx, err)
	}
	if q.AllowExtra {
		extra, err := s.driver.Input(ctx, InputConfig{
			Message: q.ExtraPrompt,
			Help:    q.ExtraPlaceholder,
			Default: q.Extra,
		})
		if err != nil {
			return err
		}
		if err := f.RecordExtra(extra); err != nil {
			return err
		}
	}

	state, err := f.Submit(ctx)
	if err != nil {
		return s.retryable(ctx, err)
	}
	s.logger.Debug("question answered", zap.String("question", q.ID), zap.Stringer("state", state))
	return nil
}

func (s *Session) askText(ctx context.Context, message, current string) (string, error) {
	if s.multiline {
		return s.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: current})
	}
	return s.driver.Input(ctx, InputConfig{Message: message, Default: current})
}

func (s *Session) retryable(ctx context.Context, err error) error {
	if errors.Is(err, walker.ErrNoAnswer) || errors.Is(err, walker.ErrInvalidAnswer) {
		return s.warn(ctx, err)
	}
	return err
}

func (s *Session) warn(ctx context.Context, err error) error {
	return s.driver.Info(ctx, s.styles.Error(render.Message(err)))
}
