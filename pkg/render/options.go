package render

import (
	theme "github.com/goliatone/go-theme"
)

// RenderOptions carry per-request data that is not part of the step itself.
type RenderOptions struct {
	// Action is the form target. Renderers derive the per-stage endpoint
	// from it ("<action>/start", "<action>/answer").
	Action string
	// HiddenFields are emitted as hidden inputs, sorted by name.
	HiddenFields map[string]string
	// Errors are user-facing messages shown above the form.
	Errors []string
	// Theme is optional; nil renders the unstyled defaults.
	Theme *theme.RendererConfig
}
