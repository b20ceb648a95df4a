// Package orchestrator wires label catalogs, OpenAPI hints, the tag
// translator and the renderer registry into a single entry point: decode a
// form state, derive its tags, render them, or dismiss one of them.
package orchestrator
