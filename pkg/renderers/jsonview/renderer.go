// Package jsonview renders a step as JSON for API clients.
package jsonview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-formwalk/pkg/render"
)

// Document is the JSON body produced for a step.
type Document struct {
	render.Step
	Position string            `json:"position,omitempty"`
	Actions  map[string]string `json:"actions"`
	Hidden   map[string]string `json:"hidden,omitempty"`
	Errors   []string          `json:"errors,omitempty"`
	Theme    string            `json:"theme,omitempty"`
}

// Renderer emits Document as indented JSON.
type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

// New returns a renderer. indent "" produces compact output.
func New(indent string) *Renderer {
	return &Renderer{indent: indent}
}

func (r *Renderer) Name() string {
	return "json"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

// Render implements render.Renderer.
func (r *Renderer) Render(ctx context.Context, step render.Step, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	action := strings.TrimRight(options.Action, "/")
	doc := Document{
		Step:     step,
		Position: step.Position(),
		Actions: map[string]string{
			"start":  action + "/start",
			"answer": action + "/answer",
		},
		Hidden: options.HiddenFields,
		Errors: render.MergeFormErrors(options.Errors),
	}
	if options.Theme != nil {
		doc.Theme = options.Theme.Theme
	}

	var (
		out []byte
		err error
	)
	if r.indent != "" {
		out, err = json.MarshalIndent(doc, "", r.indent)
	} else {
		out, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("jsonview: encode step: %w", err)
	}
	return out, nil
}
