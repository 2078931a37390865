package jsonview_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwalk/pkg/render"
	"github.com/goliatone/go-formwalk/pkg/renderers/jsonview"
	"github.com/goliatone/go-formwalk/pkg/testsupport"
)

func TestRenderer_QuestionStep(t *testing.T) {
	f := testsupport.NewFlow(t, nil)
	testsupport.Advance(t, f, "😊")
	if err := f.Record(3); err != nil {
		t.Fatalf("record: %v", err)
	}

	out, err := jsonview.New("  ").Render(context.Background(), render.NewStep(f), render.RenderOptions{
		Action: "/api/",
		Errors: []string{"uno", " "},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if got["stage"] != "questions" || got["position"] != "2/3" || got["canSubmit"] != true {
		t.Fatalf("unexpected document: %s", out)
	}
	wantActions := map[string]any{"start": "/api/start", "answer": "/api/answer"}
	if diff := cmp.Diff(wantActions, got["actions"]); diff != "" {
		t.Fatalf("actions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"uno"}, got["errors"]); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	q := got["question"].(map[string]any)
	if q["id"] != "sleep" || q["answer"] != "3" || q["extraKey"] != "sleep_extra" {
		t.Fatalf("unexpected question: %v", q)
	}
}

func TestRenderer_FinishedCarriesAnswers(t *testing.T) {
	f := testsupport.NewFlow(t, nil)
	testsupport.Advance(t, f, testsupport.DefaultAnswers...)

	out, err := jsonview.New("").Render(context.Background(), render.NewStep(f), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var got struct {
		Stage   string         `json:"stage"`
		Answers map[string]any `json:"answers"`
	}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{"mood": "😊", "sleep": float64(2), "notes": "Un buen día"}
	if got.Stage != "finished" {
		t.Fatalf("stage %q", got.Stage)
	}
	if diff := cmp.Diff(want, got.Answers); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
}
