package tui

import (
	"go.uber.org/zap"
)

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithNoColor disables ANSI styling, e.g. for NO_COLOR or piped output.
func WithNoColor(noColor bool) Option {
	return func(s *Session) {
		s.styles = NewStyles(noColor)
	}
}

// WithMultilineText asks free-text questions with a multi-line prompt.
func WithMultilineText(enabled bool) Option {
	return func(s *Session) {
		s.multiline = enabled
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}
