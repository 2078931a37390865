package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// LoadThemeManifest reads a JSON theme manifest and registers it with a
// go-theme registry, which rejects incomplete manifests.
func LoadThemeManifest(filename string) (*theme.Manifest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("render: read theme manifest: %w", err)
	}
	return ParseThemeManifest(data)
}

// ParseThemeManifest decodes and validates a manifest.
func ParseThemeManifest(data []byte) (*theme.Manifest, error) {
	var manifest theme.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("render: decode theme manifest: %w", err)
	}
	if strings.TrimSpace(manifest.Name) == "" {
		return nil, fmt.Errorf("render: theme manifest has no name")
	}
	if err := theme.NewRegistry().Register(&manifest); err != nil {
		return nil, fmt.Errorf("render: register theme %q: %w", manifest.Name, err)
	}
	return &manifest, nil
}

// ManifestSelector serves a single manifest through the go-theme selector
// interface. Unknown variants fall back to the base manifest.
type ManifestSelector struct {
	Manifest *theme.Manifest
	// Default is used when Select is called with an empty variant.
	Default string
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// Select implements theme.ThemeSelector.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if s == nil || s.Manifest == nil {
		return nil, fmt.Errorf("render: no theme manifest loaded")
	}
	if name != "" && name != s.Manifest.Name {
		return nil, fmt.Errorf("render: theme %q not found", name)
	}
	if variant == "" {
		variant = s.Default
	}
	if _, ok := s.Manifest.Variants[variant]; !ok {
		variant = ""
	}
	return &theme.Selection{
		Theme:    s.Manifest.Name,
		Variant:  variant,
		Manifest: s.Manifest,
	}, nil
}

// ThemeConfig flattens a selection into the renderer view: variant tokens
// override base tokens, every token becomes a "--name" CSS variable and
// assets resolve against the manifest prefix.
func ThemeConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	variant := manifest.Variants[selection.Variant]

	tokens := mergeStrings(manifest.Tokens, variant.Tokens)
	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+strings.TrimPrefix(key, "--")] = value
	}

	prefix := manifest.Assets.Prefix
	if variant.Assets.Prefix != "" {
		prefix = variant.Assets.Prefix
	}
	files := mergeStrings(manifest.Assets.Files, variant.Assets.Files)

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Tokens:   tokens,
		CSSVars:  cssVars,
		Partials: mergeStrings(manifest.Templates, variant.Templates),
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if strings.Contains(file, "://") || strings.HasPrefix(file, "/") || prefix == "" {
				return file
			}
			return path.Join(prefix, file)
		},
	}
}

func mergeStrings(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
