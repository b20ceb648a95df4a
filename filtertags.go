// Package filtertags is the top-level entry point of go-filtertags: it
// re-exports the orchestrator and the most common types so callers can turn a
// list form state into rendered, dismissible filter tags with one import.
package filtertags

import (
	"context"
	"io/fs"

	core "github.com/goliatone/go-filtertags/pkg/filtertags"
	"github.com/goliatone/go-filtertags/pkg/formstate"
	pkgopenapi "github.com/goliatone/go-filtertags/pkg/openapi"
	"github.com/goliatone/go-filtertags/pkg/orchestrator"
	"github.com/goliatone/go-filtertags/pkg/render"
	"github.com/goliatone/go-filtertags/pkg/renderers/vanilla"
)

// Tag aliases the core tag descriptor.
type Tag = core.Tag

// RenderOptions describes per-request render settings such as the dismiss
// link action and the tag subset.
type RenderOptions = render.RenderOptions

// TagSubset aliases render.TagSubset for callers rendering part of the tags.
type TagSubset = render.TagSubset

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewLoader constructs an OpenAPI loader.
func NewLoader(options ...pkgopenapi.LoaderOption) *pkgopenapi.Loader {
	return pkgopenapi.NewLoader(options...)
}

// TagsFromQuery decodes a raw query string and derives its tags.
func TagsFromQuery(ctx context.Context, query string, options ...orchestrator.Option) ([]Tag, error) {
	return orchestrator.New(options...).Tags(ctx, orchestrator.Request{Query: query})
}

// TagsFromSnapshot derives the tags of an already decoded form state.
func TagsFromSnapshot(ctx context.Context, snapshot formstate.Snapshot, options ...orchestrator.Option) ([]Tag, error) {
	return orchestrator.New(options...).Tags(ctx, orchestrator.Request{Snapshot: &snapshot})
}

// GenerateHTML decodes query and renders its tags with the default vanilla
// renderer. action is the path dismiss links point at.
func GenerateHTML(ctx context.Context, query, action string, options ...orchestrator.Option) ([]byte, error) {
	out, err := orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Query:         query,
		RenderOptions: render.RenderOptions{Action: action},
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the default stylesheet so Go applications can serve it.
//
// Typical mount:
//
//	mux.Handle("/filtertags/",
//	  http.StripPrefix("/filtertags/",
//	    http.FileServerFS(filtertags.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
