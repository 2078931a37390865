package walker_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwalk/pkg/question"
	"github.com/goliatone/go-formwalk/pkg/store"
	"github.com/goliatone/go-formwalk/pkg/walker"
)

type failingStore struct {
	store.Store
	err   error
	calls int
}

func (f *failingStore) Set(context.Context, string, []byte) error {
	f.calls++
	return f.err
}

func newWalker(t *testing.T, opts ...walker.Option) *walker.Walker {
	t.Helper()
	w, err := walker.New(question.Default(), opts...)
	if err != nil {
		t.Fatalf("new walker: %v", err)
	}
	return w
}

func readBlob(t *testing.T, s store.Store, key string) map[string]any {
	t.Helper()
	data, err := s.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("get %s: %v", key, err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode %s: %v", key, err)
	}
	return out
}

func TestWalker_FullWalkPersistsAnswers(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	var hooked walker.Answers
	w := newWalker(t,
		walker.WithStore(mem),
		walker.WithOnComplete(func(_ context.Context, a walker.Answers) error {
			hooked = a
			return nil
		}),
	)

	steps := []any{"😊", 2, "ok"}
	for i, value := range steps {
		if got := w.State(); got != (walker.State{Index: i}) {
			t.Fatalf("step %d: state %v", i, got)
		}
		if err := w.Record(value); err != nil {
			t.Fatalf("step %d: record: %v", i, err)
		}
		state, err := w.SubmitCurrent(ctx)
		if err != nil {
			t.Fatalf("step %d: submit: %v", i, err)
		}
		if i < len(steps)-1 && state != (walker.State{Index: i + 1}) {
			t.Fatalf("step %d: expected awaiting(%d), got %v", i, i+1, state)
		}
	}

	if !w.Complete() || w.State().String() != "complete" {
		t.Fatalf("expected complete, got %v", w.State())
	}

	want := map[string]any{"mood": "😊", "sleep": float64(2), "notes": "ok"}
	if diff := cmp.Diff(want, readBlob(t, mem, walker.DefaultKey)); diff != "" {
		t.Fatalf("persisted answers mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(walker.Answers{"mood": "😊", "sleep": 2, "notes": "ok"}, hooked); diff != "" {
		t.Fatalf("hook answers mismatch (-want +got):\n%s", diff)
	}
}

func TestWalker_NoPersistenceBeforeLastStep(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	w := newWalker(t, walker.WithStore(mem))

	_ = w.Record("😔")
	if _, err := w.SubmitCurrent(ctx); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if keys := mem.Keys(); len(keys) != 0 {
		t.Fatalf("expected no writes before completion, got %v", keys)
	}
}

func TestWalker_SubmitWithoutAnswerIsDisabled(t *testing.T) {
	w := newWalker(t)

	if w.CanSubmit() {
		t.Fatalf("expected submission disabled without answer")
	}
	state, err := w.SubmitCurrent(context.Background())
	if !errors.Is(err, walker.ErrNoAnswer) {
		t.Fatalf("expected ErrNoAnswer, got %v", err)
	}
	if state != (walker.State{Index: 0}) {
		t.Fatalf("state changed: %v", state)
	}
}

func TestWalker_BlankTextDoesNotEnableSubmit(t *testing.T) {
	ctx := context.Background()
	w := newWalker(t)
	_ = w.Record("😊")
	_, _ = w.SubmitCurrent(ctx)
	_ = w.Record(3)
	_, _ = w.SubmitCurrent(ctx)

	if err := w.Record("   "); err != nil {
		t.Fatalf("record: %v", err)
	}
	if w.CanSubmit() {
		t.Fatalf("whitespace text must not enable submission")
	}
}

func TestWalker_RecordValidatesDomain(t *testing.T) {
	ctx := context.Background()
	w := newWalker(t)

	if err := w.Record("🙂"); !errors.Is(err, walker.ErrInvalidAnswer) {
		t.Fatalf("emoji outside choices: got %v", err)
	}
	if err := w.Record(1); !errors.Is(err, walker.ErrInvalidAnswer) {
		t.Fatalf("int for emoji: got %v", err)
	}
	_ = w.Record("😊")
	_, _ = w.SubmitCurrent(ctx)

	cases := []struct {
		value any
		ok    bool
		want  int
	}{
		{value: 1, ok: true, want: 1},
		{value: int64(3), ok: true, want: 3},
		{value: float64(2), ok: true, want: 2},
		{value: "2", ok: true, want: 2},
		{value: json.Number("3"), ok: true, want: 3},
		{value: uint(2), ok: true, want: 2},
		{value: uint64(3), ok: true, want: 3},
		{value: float32(1), ok: true, want: 1},
		{value: uint64(math.MaxUint64)},
		{value: float32(1.5)},
		{value: 2.5},
		{value: 0},
		{value: 4},
		{value: "two"},
	}
	for _, tc := range cases {
		err := w.Record(tc.value)
		if !tc.ok {
			if !errors.Is(err, walker.ErrInvalidAnswer) {
				t.Fatalf("value %#v: expected ErrInvalidAnswer, got %v", tc.value, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("value %#v: %v", tc.value, err)
		}
		got, _ := w.Answer("sleep")
		if got != tc.want {
			t.Fatalf("value %#v: stored %#v, want %d", tc.value, got, tc.want)
		}
	}
}

func TestWalker_ExtraText(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	w := newWalker(t, walker.WithStore(mem), walker.WithKey("checkin"))

	if err := w.RecordExtra("nope"); !errors.Is(err, walker.ErrExtraNotAllowed) {
		t.Fatalf("extra on mood: got %v", err)
	}
	_ = w.Record("😯")
	_, _ = w.SubmitCurrent(ctx)

	if err := w.RecordExtra("desperté dos veces"); err != nil {
		t.Fatalf("record extra: %v", err)
	}
	if w.CanSubmit() {
		t.Fatalf("extra text alone must not enable submission")
	}
	_ = w.Record(1)
	_, _ = w.SubmitCurrent(ctx)
	_ = w.Record("nada")
	if _, err := w.SubmitCurrent(ctx); err != nil {
		t.Fatalf("final submit: %v", err)
	}

	want := map[string]any{
		"mood":        "😯",
		"sleep":       float64(1),
		"sleep_extra": "desperté dos veces",
		"notes":       "nada",
	}
	if diff := cmp.Diff(want, readBlob(t, mem, "checkin")); diff != "" {
		t.Fatalf("persisted answers mismatch (-want +got):\n%s", diff)
	}
}

func TestWalker_BlankExtraClearsEntry(t *testing.T) {
	ctx := context.Background()
	w := newWalker(t)
	_ = w.Record("😊")
	_, _ = w.SubmitCurrent(ctx)

	_ = w.RecordExtra("algo")
	_ = w.RecordExtra(" ")
	if _, ok := w.Answer("sleep_extra"); ok {
		t.Fatalf("expected blank extra to clear entry")
	}
}

func TestWalker_CompletedRejectsFurtherCalls(t *testing.T) {
	ctx := context.Background()
	w := newWalker(t)
	for _, v := range []any{"😊", 2, "ok"} {
		_ = w.Record(v)
		_, _ = w.SubmitCurrent(ctx)
	}

	if _, ok := w.Current(); ok {
		t.Fatalf("expected no current question")
	}
	if w.CanSubmit() {
		t.Fatalf("expected submission disabled after completion")
	}
	if err := w.Record("x"); !errors.Is(err, walker.ErrCompleted) {
		t.Fatalf("record after completion: %v", err)
	}
	if _, err := w.SubmitCurrent(ctx); !errors.Is(err, walker.ErrCompleted) {
		t.Fatalf("submit after completion: %v", err)
	}
}

func TestWalker_StoreFailureKeepsLastQuestion(t *testing.T) {
	ctx := context.Background()
	failing := &failingStore{Store: store.NewMemory(), err: errors.New("disk full")}
	w := newWalker(t, walker.WithStore(failing))
	for _, v := range []any{"😊", 2} {
		_ = w.Record(v)
		_, _ = w.SubmitCurrent(ctx)
	}
	_ = w.Record("ok")

	state, err := w.SubmitCurrent(ctx)
	if err == nil || failing.calls != 1 {
		t.Fatalf("expected store error, got %v (calls %d)", err, failing.calls)
	}
	if state != (walker.State{Index: 2}) {
		t.Fatalf("expected to stay on last question, got %v", state)
	}

	failing.err = nil
	if _, err := w.SubmitCurrent(ctx); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if !w.Complete() {
		t.Fatalf("expected completion after retry")
	}
}

func TestWalker_QuestionsAreCopied(t *testing.T) {
	questions := question.Default()
	w, err := walker.New(questions)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	questions[0].Choices[0] = "changed"

	if err := w.Record("😊"); err != nil {
		t.Fatalf("walker saw caller mutation: %v", err)
	}
	q, _ := w.Current()
	q.Choices[0] = "changed"
	if err := w.Record("😊"); err != nil {
		t.Fatalf("walker saw Current() mutation: %v", err)
	}
}

func TestNew_RejectsInvalidQuestions(t *testing.T) {
	if _, err := walker.New(nil); !errors.Is(err, question.ErrEmptySet) {
		t.Fatalf("expected ErrEmptySet, got %v", err)
	}
}

func textQuestions(n int) []question.Question {
	qs := make([]question.Question, n)
	for i := range qs {
		qs[i] = question.Question{
			ID:     fmt.Sprintf("q%d", i),
			Prompt: fmt.Sprintf("Pregunta %d", i),
			Type:   question.TypeText,
		}
	}
	return qs
}

func TestWalker_AnyLengthWalk(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			ctx := context.Background()
			mem := store.NewMemory()
			w, err := walker.New(textQuestions(n), walker.WithStore(mem))
			if err != nil {
				t.Fatalf("new walker: %v", err)
			}

			want := map[string]any{}
			for i := 0; i < n; i++ {
				if got := w.State().String(); got != fmt.Sprintf("awaiting(%d)", i) {
					t.Fatalf("step %d: state %s", i, got)
				}
				if got := w.IsLast(); got != (i == n-1) {
					t.Fatalf("step %d: IsLast=%v", i, got)
				}
				value := fmt.Sprintf("respuesta %d", i)
				want[fmt.Sprintf("q%d", i)] = value
				if err := w.Record(value); err != nil {
					t.Fatalf("step %d: record: %v", i, err)
				}
				if i < n-1 && len(mem.Keys()) != 0 {
					t.Fatalf("step %d: store written before the last step: %v", i, mem.Keys())
				}
				state, err := w.SubmitCurrent(ctx)
				if err != nil {
					t.Fatalf("step %d: submit: %v", i, err)
				}
				wantState := walker.State{Index: i + 1}
				if i == n-1 {
					wantState = walker.State{Index: i, Complete: true}
				}
				if state.String() != wantState.String() {
					t.Fatalf("step %d: got %s, want %s", i, state, wantState)
				}
			}

			if diff := cmp.Diff([]string{walker.DefaultKey}, mem.Keys()); diff != "" {
				t.Fatalf("stored keys mismatch (-want +got):\n%s", diff)
			}
			blob := readBlob(t, mem, walker.DefaultKey)
			if len(blob) != n {
				t.Fatalf("expected %d entries, got %d", n, len(blob))
			}
			if diff := cmp.Diff(want, blob); diff != "" {
				t.Fatalf("blob mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWalker_FailingHookStillCompletes(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	hookErr := errors.New("hook down")
	w, err := walker.New(textQuestions(1),
		walker.WithStore(mem),
		walker.WithOnComplete(func(context.Context, walker.Answers) error { return hookErr }),
	)
	if err != nil {
		t.Fatalf("new walker: %v", err)
	}
	_ = w.Record("hola")

	state, err := w.SubmitCurrent(ctx)
	if !errors.Is(err, hookErr) {
		t.Fatalf("expected hook error, got %v", err)
	}
	if !state.Complete || !w.Complete() {
		t.Fatalf("expected completion despite hook error, got %v", state)
	}
	if _, err := mem.Get(ctx, walker.DefaultKey); err != nil {
		t.Fatalf("answers should be stored: %v", err)
	}
}
