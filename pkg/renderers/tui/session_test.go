package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwalk/pkg/flow"
	"github.com/goliatone/go-formwalk/pkg/render"
	"github.com/goliatone/go-formwalk/pkg/store"
	"github.com/goliatone/go-formwalk/pkg/testsupport"
	"github.com/goliatone/go-formwalk/pkg/walker"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	textAreas    []string
	infoMessages []string
	selectCfgs   []SelectConfig
	inputPos     int
	selectPos    int
	textPos      int
	selectErr    error
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	if s.selectErr != nil {
		return -1, s.selectErr
	}
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	s.selectCfgs = append(s.selectCfgs, cfg)
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func TestSession_CompletesCheckIn(t *testing.T) {
	mem := store.NewMemory()
	f := testsupport.NewFlow(t, mem)
	driver := &stubDriver{
		textAreas: []string{"   ", "Un día largo"},
		selectIdx: []int{1, 7, 0},
		inputs:    []string{"dormí poco", "fin"},
	}
	session := NewSession(WithPromptDriver(driver), WithNoColor(true))

	if err := session.Run(context.Background(), f); err != nil {
		t.Fatalf("run: %v", err)
	}

	answers, err := flow.LoadAnswers(context.Background(), mem, "")
	if err != nil {
		t.Fatalf("load answers: %v", err)
	}
	want := walker.Answers{"mood": "😔", "sleep": 1, "sleep_extra": "dormí poco", "notes": "fin"}
	if diff := cmp.Diff(want, answers); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}

	wantInfo := []string{
		flow.Title,
		"! " + render.MessageEmptyResponse,
		flow.QuestionsIntro,
		"! " + render.MessageInvalidAnswer,
		flow.ThanksTitle + "\n" + flow.ThanksBody,
	}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	if got := driver.selectCfgs[0].Message; !strings.HasPrefix(got, "[1/3] ") {
		t.Fatalf("expected progress prefix, got %q", got)
	}
	if diff := cmp.Diff([]string{"1 (Mal)", "2 (Regular)", "3 (Bien)"}, driver.selectCfgs[1].Options); diff != "" {
		t.Fatalf("scale options mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_EmptyTextIsAskedAgain(t *testing.T) {
	f := testsupport.NewFlow(t, nil)
	testsupport.Advance(t, f, "😊", 2)
	driver := &stubDriver{inputs: []string{"  ", "listo"}}

	if err := NewSession(WithPromptDriver(driver), WithNoColor(true)).Run(context.Background(), f); err != nil {
		t.Fatalf("run: %v", err)
	}
	if f.Stage() != flow.StageFinished {
		t.Fatalf("expected finished, got %s", f.Stage())
	}
	want := []string{
		flow.QuestionsIntro,
		"! " + render.MessageNoAnswer,
		flow.ThanksTitle + "\n" + flow.ThanksBody,
	}
	if diff := cmp.Diff(want, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_AbortStopsWithoutPersisting(t *testing.T) {
	mem := store.NewMemory()
	f := testsupport.NewFlow(t, mem)
	driver := &stubDriver{textAreas: []string{"bien"}, selectErr: ErrAborted}

	err := NewSession(WithPromptDriver(driver), WithNoColor(true)).Run(context.Background(), f)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if _, err := mem.Get(context.Background(), walker.DefaultKey); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("answers should not be stored, got %v", err)
	}
}

func TestRenderer_TextView(t *testing.T) {
	f := testsupport.NewFlow(t, nil)
	testsupport.Advance(t, f, "😊")
	if err := f.Record(3); err != nil {
		t.Fatalf("record: %v", err)
	}

	out, err := NewRenderer(true).Render(context.Background(), render.NewStep(f), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	testsupport.AssertContains(t, string(out),
		flow.Title,
		flow.QuestionsIntro+" (2/3)",
		"¿Cómo dormiste hoy?",
		"  ( ) 1 (Mal)",
		"  (x) 3 (Bien)",
	)
}
