package tui

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-filtertags/pkg/filtertags"
	"github.com/goliatone/go-filtertags/pkg/render"
)

// Name is the registry name of the terminal renderer.
const Name = "tui"

// Renderer prints tags as plain text lines or as a JSON view.
type Renderer struct {
	settings settings
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a terminal renderer.
func New(options ...Option) *Renderer {
	return &Renderer{settings: newSettings(options)}
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	if r.settings.outputFormat == OutputFormatJSON {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

// Render writes one "label: value" line per tag, followed by the clear-all
// link when present. An empty tag list prints the empty-state text.
func (r *Renderer) Render(ctx context.Context, tags []filtertags.Tag, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	view := render.BuildView(tags, options)

	if r.settings.outputFormat == OutputFormatJSON {
		payload, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui renderer: marshal view: %w", err)
		}
		return append(payload, '\n'), nil
	}

	var buf bytes.Buffer
	if len(view.Tags) == 0 {
		fmt.Fprintf(&buf, "%s%s\n", r.settings.theme.InfoPrefix, view.EmptyText)
		return buf.Bytes(), nil
	}
	for _, tag := range view.Tags {
		buf.WriteString(r.settings.theme.TagPrefix)
		buf.WriteString(tag.Text)
		if r.settings.showLinks {
			fmt.Fprintf(&buf, "  (%s)", tag.DismissHref)
		}
		buf.WriteByte('\n')
	}
	if view.ClearAll != nil && r.settings.showLinks {
		fmt.Fprintf(&buf, "%s%s  (%s)\n", r.settings.theme.InfoPrefix, view.ClearAll.Label, view.ClearAll.Href)
	}
	return buf.Bytes(), nil
}
