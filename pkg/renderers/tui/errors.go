package tui

import "errors"

var (
	// ErrAborted means the participant pressed Ctrl+C. Nothing further is
	// persisted for the question being asked.
	ErrAborted = errors.New("tui: check-in aborted")
	// ErrNoDriver is returned by Session.Run without a prompt driver.
	ErrNoDriver = errors.New("tui: prompt driver is nil")
	// ErrNoQuestion means the flow reported the questions stage but had no
	// current question.
	ErrNoQuestion = errors.New("tui: no current question")
)
