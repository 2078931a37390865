package flow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwalk/pkg/question"
	"github.com/goliatone/go-formwalk/pkg/store"
	"github.com/goliatone/go-formwalk/pkg/walker"
)

// DefaultInitialKey is the store key of the greeting response.
const DefaultInitialKey = "emotionsData"

// Stage is the screen a check-in is on.
type Stage string

const (
	StageGreeting  Stage = "greeting"
	StageQuestions Stage = "questions"
	StageFinished  Stage = "finished"
)

var (
	// ErrEmptyResponse rejects a blank greeting response.
	ErrEmptyResponse = errors.New("flow: initial response is required")
	// ErrWrongStage is returned when an operation does not apply to the
	// current stage.
	ErrWrongStage = errors.New("flow: operation not allowed in current stage")
)

// InitialResponse is the persisted greeting answer.
type InitialResponse struct {
	DayMood   string `json:"dayMood"`
	Timestamp string `json:"timestamp"`
}

// Flow wraps a question walker with the greeting that precedes it and the
// thank-you screen that follows it. Like the walker it belongs to a single
// session.
type Flow struct {
	questions   []question.Question
	stage       Stage
	walker      *walker.Walker
	initial     *InitialResponse
	store       store.Store
	logger      *zap.Logger
	now         func() time.Time
	initialKey  string
	answersKey  string
	observer    Observer
	channel     string
	walkerExtra []walker.Option
}

// New validates questions and returns a flow on the greeting stage.
func New(questions []question.Question, options ...Option) (*Flow, error) {
	if err := question.Validate(questions); err != nil {
		return nil, fmt.Errorf("flow: %w", err)
	}
	f := &Flow{
		questions:  question.CloneAll(questions),
		stage:      StageGreeting,
		logger:     zap.NewNop(),
		now:        time.Now,
		initialKey: DefaultInitialKey,
		answersKey: walker.DefaultKey,
		observer:   nopObserver{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	if f.store == nil {
		f.store = store.NewMemory()
	}
	return f, nil
}

// Stage reports the current screen.
func (f *Flow) Stage() Stage {
	return f.stage
}

// Questions returns a copy of the question list.
func (f *Flow) Questions() []question.Question {
	return question.CloneAll(f.questions)
}

// Walker exposes the question walker; nil before the greeting is answered.
func (f *Flow) Walker() *walker.Walker {
	return f.walker
}

// Initial returns the stored greeting response, if any.
func (f *Flow) Initial() (InitialResponse, bool) {
	if f.initial == nil {
		return InitialResponse{}, false
	}
	return *f.initial, true
}

// SubmitInitial records the greeting response together with the current
// time, persists it and moves on to the questions.
func (f *Flow) SubmitInitial(ctx context.Context, text string) error {
	if f.stage != StageGreeting {
		return fmt.Errorf("%w: %s", ErrWrongStage, f.stage)
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyResponse
	}

	resp := InitialResponse{
		DayMood:   text,
		Timestamp: f.now().UTC().Format(time.RFC3339Nano),
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("flow: encode initial response: %w", err)
	}
	if err := f.store.Set(ctx, f.initialKey, payload); err != nil {
		return fmt.Errorf("flow: persist initial response: %w", err)
	}
	f.logger.Info("initial response stored",
		zap.String("key", f.initialKey),
		zap.String("dayMood", resp.DayMood),
		zap.String("timestamp", resp.Timestamp),
	)

	opts := []walker.Option{
		walker.WithStore(f.store),
		walker.WithKey(f.answersKey),
		walker.WithLogger(f.logger),
	}
	opts = append(opts, f.walkerExtra...)
	w, err := walker.New(f.questions, opts...)
	if err != nil {
		return fmt.Errorf("flow: %w", err)
	}

	f.initial = &resp
	f.walker = w
	f.stage = StageQuestions
	f.observer.Started(f.channel)
	return nil
}

// Record forwards to the walker.
func (f *Flow) Record(value any) error {
	if err := f.requireQuestions(); err != nil {
		return err
	}
	return f.walker.Record(value)
}

// RecordExtra forwards to the walker.
func (f *Flow) RecordExtra(text string) error {
	if err := f.requireQuestions(); err != nil {
		return err
	}
	return f.walker.RecordExtra(text)
}

// Submit confirms the current question. Completing the walk moves the flow
// to the finished stage, also when the completion hook then fails; that
// error is still returned.
func (f *Flow) Submit(ctx context.Context) (walker.State, error) {
	if err := f.requireQuestions(); err != nil {
		return walker.State{}, err
	}
	current, _ := f.walker.Current()
	state, err := f.walker.SubmitCurrent(ctx)
	if err != nil && !state.Complete {
		return state, err
	}
	f.observer.Stepped(f.channel, current.ID)
	if state.Complete {
		f.stage = StageFinished
		f.observer.Finished(f.channel)
	}
	return state, err
}

// Answers returns the answers recorded so far.
func (f *Flow) Answers() walker.Answers {
	if f.walker == nil {
		return walker.Answers{}
	}
	return f.walker.Answers()
}

// Keys reports the store keys used for the greeting and the answer set.
func (f *Flow) Keys() (initial, answers string) {
	return f.initialKey, f.answersKey
}

func (f *Flow) requireQuestions() error {
	if f.stage != StageQuestions || f.walker == nil {
		return fmt.Errorf("%w: %s", ErrWrongStage, f.stage)
	}
	return nil
}

// LoadInitial reads a persisted greeting response.
func LoadInitial(ctx context.Context, s store.Store, key string) (InitialResponse, error) {
	if key == "" {
		key = DefaultInitialKey
	}
	data, err := s.Get(ctx, key)
	if err != nil {
		return InitialResponse{}, err
	}
	var out InitialResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return InitialResponse{}, fmt.Errorf("flow: decode %s: %w", key, err)
	}
	return out, nil
}

// LoadAnswers reads a persisted answer set. Numbers decode as json.Number so
// scale values keep their integer form.
func LoadAnswers(ctx context.Context, s store.Store, key string) (walker.Answers, error) {
	if key == "" {
		key = walker.DefaultKey
	}
	data, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	out := walker.Answers{}
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("flow: decode %s: %w", key, err)
	}
	for k, v := range out {
		if n, ok := v.(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				out[k] = int(i)
			}
		}
	}
	return out, nil
}
