// Package template defines the template engine seam renderers depend on.
// The gotemplate subpackage provides a pongo2-backed implementation.
package template
