package render

import "context"

// Renderer presents one Step of a check-in. Implementations must not mutate
// the step and must be safe for concurrent use; the web server shares one
// renderer across sessions.
type Renderer interface {
	// Name is the registry key and the value of the ?format= parameter.
	Name() string
	// ContentType is sent with the rendered body and matched against Accept.
	ContentType() string
	Render(ctx context.Context, step Step, options RenderOptions) ([]byte, error)
}
