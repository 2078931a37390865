package render_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formwalk/pkg/flow"
	"github.com/goliatone/go-formwalk/pkg/question"
	"github.com/goliatone/go-formwalk/pkg/render"
	"github.com/goliatone/go-formwalk/pkg/walker"
)

type stubRenderer struct {
	name, contentType string
}

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return s.contentType }
func (s stubRenderer) Render(context.Context, render.Step, render.RenderOptions) ([]byte, error) {
	return []byte(s.name), nil
}

func newFlow(t *testing.T) *flow.Flow {
	t.Helper()
	f, err := flow.New(question.Default())
	if err != nil {
		t.Fatalf("new flow: %v", err)
	}
	return f
}

func TestNewStep_Stages(t *testing.T) {
	ctx := context.Background()
	f := newFlow(t)

	greeting := render.NewStep(f)
	if greeting.Stage != flow.StageGreeting || greeting.Prompt != flow.GreetingPrompt || greeting.SubmitLabel != flow.LabelContinue {
		t.Fatalf("unexpected greeting step: %+v", greeting)
	}
	if greeting.Question != nil || greeting.Position() != "" {
		t.Fatalf("greeting should carry no question")
	}

	if err := f.SubmitInitial(ctx, "bien"); err != nil {
		t.Fatalf("submit initial: %v", err)
	}
	if err := f.Record("😊"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := f.Submit(ctx); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := f.Record(2); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := f.RecordExtra("algo"); err != nil {
		t.Fatalf("record extra: %v", err)
	}

	step := render.NewStep(f)
	want := &render.QuestionView{
		ID:     "sleep",
		Prompt: "¿Cómo dormiste hoy?",
		Type:   question.TypeScale,
		Choices: []render.Choice{
			{Value: "1", Label: "1 (Mal)"},
			{Value: "2", Label: "2 (Regular)", Selected: true},
			{Value: "3", Label: "3 (Bien)"},
		},
		Answer:           "2",
		AllowExtra:       true,
		ExtraKey:         "sleep_extra",
		Extra:            "algo",
		ExtraPrompt:      flow.ExtraPrompt,
		ExtraPlaceholder: flow.ExtraPlaceholder,
	}
	if diff := cmp.Diff(want, step.Question); diff != "" {
		t.Fatalf("question view mismatch (-want +got):\n%s", diff)
	}
	if !step.CanSubmit || step.IsLast || step.Position() != "2/3" || step.SubmitLabel != flow.LabelNext {
		t.Fatalf("unexpected step flags: %+v", step)
	}

	if _, err := f.Submit(ctx); err != nil {
		t.Fatalf("submit: %v", err)
	}
	last := render.NewStep(f)
	if !last.IsLast || last.CanSubmit || last.SubmitLabel != flow.LabelFinish {
		t.Fatalf("unexpected last step: %+v", last)
	}
	if err := f.Record("fin"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := f.Submit(ctx); err != nil {
		t.Fatalf("submit: %v", err)
	}

	done := render.NewStep(f)
	if done.Stage != flow.StageFinished || done.Prompt != flow.ThanksTitle || done.Hint != flow.ThanksBody {
		t.Fatalf("unexpected finished step: %+v", done)
	}
	wantAnswers := walker.Answers{"mood": "😊", "sleep": 2, "sleep_extra": "algo", "notes": "fin"}
	if diff := cmp.Diff(wantAnswers, done.Answers); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Negotiate(t *testing.T) {
	html := stubRenderer{name: "vanilla", contentType: "text/html; charset=utf-8"}
	js := stubRenderer{name: "json", contentType: "application/json"}
	registry, err := render.NewRegistry(html, js)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	cases := []struct {
		format, accept, want string
	}{
		{"", "", "vanilla"},
		{"json", "", "json"},
		{"", "application/json", "json"},
		{"", "text/html,application/xhtml+xml", "vanilla"},
		{"", "*/*", "vanilla"},
		{"html", "", "vanilla"},
	}
	for _, tc := range cases {
		got, err := registry.Negotiate(tc.format, tc.accept)
		if err != nil {
			t.Fatalf("%q/%q: %v", tc.format, tc.accept, err)
		}
		if got.Name() != tc.want {
			t.Fatalf("%q/%q: got %s want %s", tc.format, tc.accept, got.Name(), tc.want)
		}
	}

	if _, err := registry.Negotiate("xml", ""); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if err := registry.Register(js); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := registry.SetDefault("json"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	if got, _ := registry.Negotiate("", ""); got.Name() != "json" {
		t.Fatalf("default not applied, got %s", got.Name())
	}
	if diff := cmp.Diff([]string{"json", "vanilla"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeAndSortHiddenFields(t *testing.T) {
	merged := render.MergeHiddenFields(
		map[string]string{" session ": "abc", "": "ignored"},
		render.QuestionField("sleep"),
		render.Hidden("  ", "skip"),
	)
	want := []render.HiddenField{
		{Name: "question", Value: "sleep"},
		{Name: "session", Value: "abc"},
	}
	if diff := cmp.Diff(want, render.SortedHiddenFields(merged)); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func TestMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{flow.ErrEmptyResponse, render.MessageEmptyResponse},
		{fmt.Errorf("x: %w", walker.ErrNoAnswer), render.MessageNoAnswer},
		{fmt.Errorf("x: %w", walker.ErrInvalidAnswer), render.MessageInvalidAnswer},
		{flow.ErrWrongStage, render.MessageWrongStage},
		{errors.New("disk full"), render.MessageUnexpected},
	}
	for _, tc := range cases {
		if got := render.Message(tc.err); got != tc.want {
			t.Fatalf("%v: got %q want %q", tc.err, got, tc.want)
		}
	}
	if diff := cmp.Diff([]string{"a", "b"}, render.MergeFormErrors([]string{" a ", ""}, "b", "a")); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestThemeConfig_MergesVariant(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "calma",
		Version: "1.0.0",
		Tokens:  map[string]string{"brand": "#2f855a", "surface": "#ffffff"},
		Assets: theme.Assets{
			Prefix: "/assets/themes/calma",
			Files:  map[string]string{"stylesheet": "theme.css"},
		},
		Variants: map[string]theme.Variant{
			"dark": {Tokens: map[string]string{"surface": "#1a202c"}},
		},
	}
	selector := &render.ManifestSelector{Manifest: manifest, Default: "dark"}

	selection, err := selector.Select("", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	cfg := render.ThemeConfig(selection)
	if cfg.Theme != "calma" || cfg.Variant != "dark" {
		t.Fatalf("unexpected selection %s/%s", cfg.Theme, cfg.Variant)
	}
	wantVars := map[string]string{"--brand": "#2f855a", "--surface": "#1a202c"}
	if diff := cmp.Diff(wantVars, cfg.CSSVars); diff != "" {
		t.Fatalf("css vars mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/themes/calma/theme.css" {
		t.Fatalf("asset url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("missing asset resolved to %q", got)
	}

	plain, err := selector.Select("calma", "unknown")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if plain.Variant != "" {
		t.Fatalf("unknown variant should fall back to base, got %q", plain.Variant)
	}
	if _, err := selector.Select("other", ""); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
}
