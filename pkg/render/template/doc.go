// Package template holds the engine seam between the HTML step renderer and
// pongo2. gotemplate is the only implementation; tests swap in fakes.
package template
