// Package validation audits stored check-ins against the answer schemas and
// reports every problem with the field it belongs to.
package validation

import (
	"context"
	"errors"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formwalk/pkg/flow"
	"github.com/goliatone/go-formwalk/pkg/question"
	"github.com/goliatone/go-formwalk/pkg/schema"
	"github.com/goliatone/go-formwalk/pkg/store"
	"github.com/goliatone/go-formwalk/pkg/walker"
)

// Issue is one problem found in a stored blob.
type Issue struct {
	Key     string `json:"key"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Result is the outcome of CheckStored. Missing keys are not issues: a
// check-in that was never finished simply has no answer set yet.
type Result struct {
	Valid   bool     `json:"valid"`
	Missing []string `json:"missing,omitempty"`
	Issues  []Issue  `json:"issues,omitempty"`
}

// Keys names the blobs to audit. Blank fields use the flow defaults.
type Keys struct {
	Initial string
	Answers string
}

// CheckStored reads the greeting and answer blobs from s and validates them.
// Store errors other than ErrNotFound are returned.
func CheckStored(ctx context.Context, s store.Store, questions []question.Question, keys Keys) (Result, error) {
	if keys.Initial == "" {
		keys.Initial = flow.DefaultInitialKey
	}
	if keys.Answers == "" {
		keys.Answers = walker.DefaultKey
	}

	result := Result{Valid: true}
	checks := []struct {
		key      string
		validate func([]byte) error
	}{
		{keys.Initial, schema.ValidateInitial},
		{keys.Answers, func(blob []byte) error { return schema.ValidateAnswers(questions, blob) }},
	}
	for _, check := range checks {
		blob, err := s.Get(ctx, check.key)
		if errors.Is(err, store.ErrNotFound) {
			result.Missing = append(result.Missing, check.key)
			continue
		}
		if err != nil {
			return Result{}, err
		}
		if err := check.validate(blob); err != nil {
			result.Valid = false
			result.Issues = append(result.Issues, IssuesFromError(check.key, err)...)
		}
	}
	return result, nil
}

// IssuesFromError flattens a schema validation error into one issue per
// violation.
func IssuesFromError(key string, err error) []Issue {
	if err == nil {
		return nil
	}
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		out := make([]Issue, 0, len(multi))
		for _, e := range multi {
			out = append(out, IssuesFromError(key, e)...)
		}
		return out
	}
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		return []Issue{{
			Key:     key,
			Field:   fieldPath(schemaErr.JSONPointer()),
			Message: strings.TrimSpace(schemaErr.Reason),
		}}
	}
	msg := strings.TrimSpace(err.Error())
	msg = strings.TrimPrefix(msg, "schema: ")
	return []Issue{{Key: key, Message: msg}}
}

func fieldPath(pointer []string) string {
	out := make([]string, 0, len(pointer))
	for _, segment := range pointer {
		if segment = strings.TrimSpace(segment); segment != "" {
			out = append(out, segment)
		}
	}
	return strings.Join(out, ".")
}
