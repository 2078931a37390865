package formwalk

import (
	"io/fs"

	"github.com/goliatone/go-formwalk/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can copy or extend them and pass the result to vanilla.WithTemplatesFS.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EmbeddedAssets exposes the default stylesheet bundle.
func EmbeddedAssets() fs.FS {
	return vanilla.AssetsFS()
}
