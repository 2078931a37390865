package testsupport

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-formwalk/pkg/flow"
	"github.com/goliatone/go-formwalk/pkg/question"
	"github.com/goliatone/go-formwalk/pkg/store"
)

// FixedTime is the clock used by NewFlow.
var FixedTime = time.Date(2024, 3, 9, 17, 30, 0, 0, time.UTC)

// DefaultAnswers answers question.Default() in order.
var DefaultAnswers = []any{"😊", 2, "Un buen día"}

// NewFlow builds a flow over the default questions with a fixed clock and the
// given store (a fresh memory store when nil).
func NewFlow(t testing.TB, s store.Store, opts ...flow.Option) *flow.Flow {
	t.Helper()
	if s == nil {
		s = store.NewMemory()
	}
	base := []flow.Option{
		flow.WithStore(s),
		flow.WithClock(func() time.Time { return FixedTime }),
	}
	f, err := flow.New(question.Default(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("new flow: %v", err)
	}
	return f
}

// Advance answers the greeting (when pending) and then submits answers in
// order. It stops after len(answers) submissions.
func Advance(t testing.TB, f *flow.Flow, answers ...any) {
	t.Helper()
	ctx := context.Background()
	if f.Stage() == flow.StageGreeting {
		if err := f.SubmitInitial(ctx, "Un día tranquilo"); err != nil {
			t.Fatalf("submit initial: %v", err)
		}
	}
	for i, value := range answers {
		if err := f.Record(value); err != nil {
			t.Fatalf("answer %d: record: %v", i, err)
		}
		if _, err := f.Submit(ctx); err != nil {
			t.Fatalf("answer %d: submit: %v", i, err)
		}
	}
}

// CaptureTemplateOutput runs a render function that also writes to an
// io.Writer and returns both the result and what was written.
func CaptureTemplateOutput(t testing.TB, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()
	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}

// AssertContains fails for every fragment missing from output.
func AssertContains(t testing.TB, output string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(output, fragment) {
			t.Errorf("output missing %q\n---\n%s", fragment, output)
		}
	}
}

// AssertNotContains fails for every fragment present in output.
func AssertNotContains(t testing.TB, output string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(output, fragment) {
			t.Errorf("output unexpectedly contains %q", fragment)
		}
	}
}
