package walker

import "errors"

var (
	// ErrNoAnswer means the current question has no answer yet; submission
	// is disabled until one is recorded.
	ErrNoAnswer = errors.New("walker: no answer recorded")
	// ErrInvalidAnswer rejects values outside the current question's domain.
	ErrInvalidAnswer = errors.New("walker: invalid answer")
	// ErrExtraNotAllowed is returned by RecordExtra on questions without a
	// secondary text field.
	ErrExtraNotAllowed = errors.New("walker: extra text not allowed")
	// ErrCompleted is returned by every mutating call after the walk ended.
	ErrCompleted = errors.New("walker: already complete")
)
