// Package formwalk is the top-level entry point: it re-exports the types most
// callers need and wires the built-in renderers together.
package formwalk

import (
	"context"
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formwalk/pkg/flow"
	"github.com/goliatone/go-formwalk/pkg/question"
	"github.com/goliatone/go-formwalk/pkg/render"
	"github.com/goliatone/go-formwalk/pkg/renderers/jsonview"
	"github.com/goliatone/go-formwalk/pkg/renderers/tui"
	"github.com/goliatone/go-formwalk/pkg/renderers/vanilla"
)

// Question aliases question.Question.
type Question = question.Question

// Flow aliases flow.Flow.
type Flow = flow.Flow

// Step aliases render.Step.
type Step = render.Step

// RenderOptions describes per-request overrides such as inline errors or a
// resolved theme.
type RenderOptions = render.RenderOptions

// DefaultQuestions returns the built-in check-in questions.
func DefaultQuestions() []Question {
	return question.Default()
}

// NewFlow starts a check-in on the greeting stage.
func NewFlow(questions []Question, options ...flow.Option) (*Flow, error) {
	return flow.New(questions, options...)
}

// NewRegistry registers the vanilla HTML (default), json and tui renderers.
func NewRegistry(options ...vanilla.Option) (*render.Registry, error) {
	html, err := vanilla.New(options...)
	if err != nil {
		return nil, fmt.Errorf("formwalk: %w", err)
	}
	return render.NewRegistry(html, jsonview.New("  "), tui.NewRenderer(true))
}

// Render snapshots f and renders it with the named renderer. An empty name
// selects the registry default.
func Render(ctx context.Context, registry *render.Registry, f *Flow, rendererName string, options RenderOptions) ([]byte, error) {
	if registry == nil {
		return nil, fmt.Errorf("formwalk: registry is nil")
	}
	renderer, err := registry.Negotiate(rendererName, "")
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, render.NewStep(f), options)
}

// ThemeFromManifest loads a go-theme manifest file and resolves variant (or
// the base theme when the variant is unknown) into renderer configuration.
func ThemeFromManifest(path, variant string) (*theme.RendererConfig, error) {
	manifest, err := render.LoadThemeManifest(path)
	if err != nil {
		return nil, err
	}
	return ThemeFromSelector(&render.ManifestSelector{Manifest: manifest}, manifest.Name, variant)
}

// ThemeFromSelector resolves a selection through any go-theme selector.
func ThemeFromSelector(selector theme.ThemeSelector, name, variant string) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, fmt.Errorf("formwalk: theme selector is nil")
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("formwalk: select theme: %w", err)
	}
	return render.ThemeConfig(selection), nil
}
