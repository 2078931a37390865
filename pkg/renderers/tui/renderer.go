package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-formwalk/pkg/flow"
	"github.com/goliatone/go-formwalk/pkg/render"
)

// Renderer prints a step as terminal text. It is the non-interactive view
// used by the CLI to show where a session stands.
type Renderer struct {
	styles Styles
}

var _ render.Renderer = (*Renderer)(nil)

// NewRenderer returns a text renderer.
func NewRenderer(noColor bool) *Renderer {
	return &Renderer{styles: NewStyles(noColor)}
}

func (r *Renderer) Name() string {
	return "tui"
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render implements render.Renderer.
func (r *Renderer) Render(ctx context.Context, step render.Step, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var lines []string
	lines = append(lines, r.styles.Title(step.Title))
	for _, msg := range render.MergeFormErrors(options.Errors) {
		lines = append(lines, r.styles.Error(msg))
	}

	switch step.Stage {
	case flow.StageGreeting:
		lines = append(lines, step.Prompt, r.styles.Muted(step.Hint))
	case flow.StageQuestions:
		lines = append(lines, r.styles.Muted(fmt.Sprintf("%s (%s)", step.Intro, step.Position())))
		if q := step.Question; q != nil {
			lines = append(lines, q.Prompt)
			for _, c := range q.Choices {
				marker := "( )"
				if c.Selected {
					marker = "(x)"
				}
				lines = append(lines, fmt.Sprintf("  %s %s", marker, c.Label))
			}
			if q.Answer != "" && len(q.Choices) == 0 {
				lines = append(lines, "  > "+q.Answer)
			}
			if q.Extra != "" {
				lines = append(lines, r.styles.Muted(q.ExtraPrompt+": "+q.Extra))
			}
		}
	case flow.StageFinished:
		lines = append(lines, r.styles.Thanks(step.Prompt, step.Hint))
	}
	return []byte(strings.Join(lines, "\n") + "\n"), nil
}
