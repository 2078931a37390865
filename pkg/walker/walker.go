package walker

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwalk/pkg/question"
	"github.com/goliatone/go-formwalk/pkg/store"
)

// DefaultKey is the store key the completed answer set is written under.
const DefaultKey = "dynamicFormData"

// Answers maps question ids (and "<id>_extra" keys) to recorded values:
// strings for emoji and free-text questions, ints for scale questions.
type Answers map[string]any

// Clone returns a shallow copy; values are immutable scalars.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// State is the walker position: awaiting the answer to question Index, or
// Complete once the last question was confirmed.
type State struct {
	Index    int
	Complete bool
}

func (s State) String() string {
	if s.Complete {
		return "complete"
	}
	return fmt.Sprintf("awaiting(%d)", s.Index)
}

// CompleteFunc runs once after the answer set has been persisted.
type CompleteFunc func(ctx context.Context, answers Answers) error

// Walker steps through a static question list, one confirmation at a time.
// It is owned by a single session and is not safe for concurrent use.
type Walker struct {
	questions  []question.Question
	index      int
	complete   bool
	answers    Answers
	store      store.Store
	key        string
	logger     *zap.Logger
	onComplete CompleteFunc
}

// New validates the question list and returns a walker positioned on the
// first question.
func New(questions []question.Question, options ...Option) (*Walker, error) {
	if err := question.Validate(questions); err != nil {
		return nil, fmt.Errorf("walker: %w", err)
	}

	w := &Walker{
		questions: question.CloneAll(questions),
		answers:   make(Answers),
		key:       DefaultKey,
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}
	if w.store == nil {
		w.store = store.NewMemory()
	}
	return w, nil
}

// Len reports the number of questions.
func (w *Walker) Len() int {
	return len(w.questions)
}

// Index reports the position of the current question.
func (w *Walker) Index() int {
	return w.index
}

// IsLast reports whether the current question is the final one.
func (w *Walker) IsLast() bool {
	return w.index == len(w.questions)-1
}

// State reports the current position.
func (w *Walker) State() State {
	return State{Index: w.index, Complete: w.complete}
}

// Complete reports whether the walk has finished.
func (w *Walker) Complete() bool {
	return w.complete
}

// Questions returns a copy of the question list.
func (w *Walker) Questions() []question.Question {
	return question.CloneAll(w.questions)
}

// Current returns the question awaiting an answer. ok is false once the walk
// is complete.
func (w *Walker) Current() (question.Question, bool) {
	if w.complete {
		return question.Question{}, false
	}
	return w.questions[w.index].Clone(), true
}

// Answers returns a copy of the answers recorded so far.
func (w *Walker) Answers() Answers {
	return w.answers.Clone()
}

// Answer returns the value recorded under key (a question id or extra key).
func (w *Walker) Answer(key string) (any, bool) {
	v, ok := w.answers[key]
	return v, ok
}

// Record stores value as the answer to the current question, replacing any
// previous answer. Values outside the question's domain are rejected with
// ErrInvalidAnswer: emoji answers must be one of the choices, scale answers
// an integer in range, free-text answers a string.
func (w *Walker) Record(value any) error {
	q, ok := w.Current()
	if !ok {
		return ErrCompleted
	}
	normalized, err := normalize(q, value)
	if err != nil {
		return err
	}
	w.answers[q.ID] = normalized
	return nil
}

// RecordExtra stores the secondary free text of the current question.
// Blank text clears it.
func (w *Walker) RecordExtra(text string) error {
	q, ok := w.Current()
	if !ok {
		return ErrCompleted
	}
	if !q.AllowExtra {
		return fmt.Errorf("%w: %q", ErrExtraNotAllowed, q.ID)
	}
	if strings.TrimSpace(text) == "" {
		delete(w.answers, q.ExtraKey())
		return nil
	}
	w.answers[q.ExtraKey()] = text
	return nil
}

// CanSubmit reports whether the current question has a non-empty answer.
// It is false once the walk is complete.
func (w *Walker) CanSubmit() bool {
	q, ok := w.Current()
	if !ok {
		return false
	}
	return present(w.answers[q.ID])
}

// SubmitCurrent confirms the current answer. Before the last question it only
// advances the index. On the last question it writes the JSON-encoded answer
// set to the store, logs it, runs the completion hook and marks the walk
// complete. When the store write fails the walker stays on the last question.
// A failing hook does not undo completion: the returned state is complete
// and the hook's error is returned alongside it.
func (w *Walker) SubmitCurrent(ctx context.Context) (State, error) {
	if w.complete {
		return w.State(), ErrCompleted
	}
	if !w.CanSubmit() {
		return w.State(), fmt.Errorf("%w: %q", ErrNoAnswer, w.questions[w.index].ID)
	}
	if !w.IsLast() {
		w.index++
		return w.State(), nil
	}

	answers := w.answers.Clone()
	payload, err := json.Marshal(answers)
	if err != nil {
		return w.State(), fmt.Errorf("walker: encode answers: %w", err)
	}
	if err := w.store.Set(ctx, w.key, payload); err != nil {
		return w.State(), fmt.Errorf("walker: persist answers: %w", err)
	}
	w.complete = true
	w.logger.Info("form answers stored",
		zap.String("key", w.key),
		zap.Any("answers", answers),
	)

	if w.onComplete != nil {
		if err := w.onComplete(ctx, answers); err != nil {
			return w.State(), fmt.Errorf("walker: completion hook: %w", err)
		}
	}
	return w.State(), nil
}

func present(v any) bool {
	switch typed := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(typed) != ""
	default:
		return true
	}
}

func normalize(q question.Question, value any) (any, error) {
	switch q.Type {
	case question.TypeEmoji:
		s, ok := value.(string)
		if !ok || !q.HasChoice(s) {
			return nil, fmt.Errorf("%w: %q is not a choice of %q", ErrInvalidAnswer, fmt.Sprint(value), q.ID)
		}
		return s, nil
	case question.TypeScale:
		n, ok := toInt(value)
		if !ok {
			return nil, fmt.Errorf("%w: %q expects an integer, got %T", ErrInvalidAnswer, q.ID, value)
		}
		if !q.InRange(n) {
			return nil, fmt.Errorf("%w: %d outside [%d,%d] for %q", ErrInvalidAnswer, n, q.Min, q.Max, q.ID)
		}
		return n, nil
	case question.TypeText:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %q expects text, got %T", ErrInvalidAnswer, q.ID, value)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidAnswer, q.Type)
	}
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case uint:
		if uint64(v) > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case uint64:
		if v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case float32:
		return floatToInt(float64(v))
	case float64:
		return floatToInt(v)
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	default:
		return 0, false
	}
}

func floatToInt(v float64) (int, bool) {
	if v != math.Trunc(v) || v >= math.MaxInt || v < math.MinInt {
		return 0, false
	}
	return int(v), true
}
