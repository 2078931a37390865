package question

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptySet is returned when a question set holds no questions.
var ErrEmptySet = errors.New("question: set is empty")

// Validate checks a question set for structural problems. All problems are
// reported at once, joined with errors.Join.
func Validate(questions []Question) error {
	if len(questions) == 0 {
		return ErrEmptySet
	}

	var errs []error
	seen := make(map[string]int, len(questions))
	for i, q := range questions {
		id := strings.TrimSpace(q.ID)
		if id == "" {
			errs = append(errs, fmt.Errorf("question: #%d has an empty id", i))
			continue
		}
		if id != q.ID {
			errs = append(errs, fmt.Errorf("question: id %q has surrounding whitespace", q.ID))
		}
		if prev, dup := seen[id]; dup {
			errs = append(errs, fmt.Errorf("question: duplicate id %q (#%d and #%d)", id, prev, i))
		}
		seen[id] = i
		if strings.HasSuffix(id, ExtraSuffix) {
			errs = append(errs, fmt.Errorf("question: id %q must not end in %q", id, ExtraSuffix))
		}
		if err := validateOne(q); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func validateOne(q Question) error {
	switch q.Type {
	case TypeEmoji:
		if len(q.Choices) == 0 {
			return fmt.Errorf("question: %q needs at least one choice", q.ID)
		}
		seen := make(map[string]struct{}, len(q.Choices))
		for _, choice := range q.Choices {
			if strings.TrimSpace(choice) == "" {
				return fmt.Errorf("question: %q has an empty choice", q.ID)
			}
			if _, dup := seen[choice]; dup {
				return fmt.Errorf("question: %q lists choice %q twice", q.ID, choice)
			}
			seen[choice] = struct{}{}
		}
	case TypeScale:
		if q.Min > q.Max {
			return fmt.Errorf("question: %q has min %d greater than max %d", q.ID, q.Min, q.Max)
		}
		for n := range q.Labels {
			if !q.InRange(n) {
				return fmt.Errorf("question: %q labels value %d outside [%d,%d]", q.ID, n, q.Min, q.Max)
			}
		}
	case TypeText:
	default:
		return fmt.Errorf("question: %q has unknown type %q", q.ID, q.Type)
	}
	return nil
}
