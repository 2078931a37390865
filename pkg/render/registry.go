package render

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry keeps renderers by name. The first registered renderer is the
// default until SetDefault says otherwise.
type Registry struct {
	mu          sync.RWMutex
	renderers   map[string]Renderer
	defaultName string
}

// NewRegistry returns a registry pre-filled with renderers.
func NewRegistry(renderers ...Renderer) (*Registry, error) {
	r := &Registry{renderers: make(map[string]Renderer)}
	for _, renderer := range renderers {
		if err := r.Register(renderer); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a renderer under its Name(). Names must be unique.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	name := strings.TrimSpace(renderer.Name())
	if name == "" {
		return fmt.Errorf("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.renderers[name] = renderer
	if r.defaultName == "" {
		r.defaultName = name
	}
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// SetDefault picks the renderer returned by Negotiate when nothing matches.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.renderers[name]; !ok {
		return fmt.Errorf("render: renderer %q not found", name)
	}
	r.defaultName = name
	return nil
}

// Get retrieves a renderer by name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("render: renderer %q not found", name)
	}
	return renderer, nil
}

// Negotiate picks a renderer for an explicit format name or, failing that,
// the first Accept media type a renderer produces. It falls back to the
// default renderer.
func (r *Registry) Negotiate(format, accept string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if format = strings.TrimSpace(format); format != "" {
		if renderer, ok := r.renderers[format]; ok {
			return renderer, nil
		}
		for _, name := range r.sortedNames() {
			renderer := r.renderers[name]
			if mediaType(renderer.ContentType()) == format || strings.HasSuffix(mediaType(renderer.ContentType()), "/"+format) {
				return renderer, nil
			}
		}
		return nil, fmt.Errorf("render: no renderer for format %q", format)
	}

	for _, part := range strings.Split(accept, ",") {
		want := mediaType(part)
		if want == "" || want == "*/*" {
			continue
		}
		for _, name := range r.sortedNames() {
			renderer := r.renderers[name]
			if mediaType(renderer.ContentType()) == want {
				return renderer, nil
			}
		}
	}

	renderer, ok := r.renderers[r.defaultName]
	if !ok {
		return nil, fmt.Errorf("render: registry is empty")
	}
	return renderer, nil
}

// List returns the sorted renderer names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames()
}

func (r *Registry) sortedNames() []string {
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mediaType(v string) string {
	if i := strings.IndexByte(v, ';'); i >= 0 {
		v = v[:i]
	}
	return strings.ToLower(strings.TrimSpace(v))
}

// Has reports whether a renderer is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.renderers[name]
	return ok
}
