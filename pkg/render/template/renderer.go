package template

import "io"

// TemplateRenderer renders the step page. Output is returned and, when out
// writers are given, also copied to them.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(content string, data any, out ...io.Writer) (string, error)
	// RegisterFilter exposes fn to templates as {{ value|name:param }}.
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	// GlobalContext merges data into every render, under the call's own data.
	GlobalContext(data any) error
}
