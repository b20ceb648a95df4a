package render

import (
	"context"

	"github.com/goliatone/go-filtertags/pkg/filtertags"
)

// Renderer converts filter tags into a byte representation (HTML, text, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, tags []filtertags.Tag, options RenderOptions) ([]byte, error)
}
