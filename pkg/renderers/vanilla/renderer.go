package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-filtertags/pkg/filtertags"
	"github.com/goliatone/go-filtertags/pkg/labels"
	"github.com/goliatone/go-filtertags/pkg/render"
	rendertemplate "github.com/goliatone/go-filtertags/pkg/render/template"
	gotemplate "github.com/goliatone/go-filtertags/pkg/render/template/gotemplate"
)

// Name is the registry name of the vanilla renderer.
const Name = "vanilla"

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	closeIcon        string
	className        string
	inlineStyles     bool
	translator       labels.Translator
	onMissing        labels.MissingTranslationHandler
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// tags.tmpl at its root.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithCloseIcon replaces the close icon with inline SVG markup. The markup is
// sanitized; an icon that sanitizes to nothing falls back to the default.
func WithCloseIcon(svg string) Option {
	return func(cfg *config) {
		cfg.closeIcon = svg
	}
}

// WithClassName appends classes to the tag container.
func WithClassName(className string) Option {
	return func(cfg *config) {
		cfg.className = className
	}
}

// WithInlineStylesheet embeds the default stylesheet in the output when the
// theme does not provide one.
func WithInlineStylesheet() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

// WithTranslator exposes translate(locale, key) to templates.
func WithTranslator(t labels.Translator, onMissing labels.MissingTranslationHandler) Option {
	return func(cfg *config) {
		cfg.translator = t
		cfg.onMissing = onMissing
	}
}

// Renderer writes tags as an HTML fragment of closable links.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	icon       string
	className  string
	stylesheet string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithTemplateFunc(render.TemplateI18nFuncs(cfg.translator, render.TemplateI18nConfig{
				OnMissing: cfg.onMissing,
			})),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	icon := sanitizeIconMarkup(cfg.closeIcon)
	if icon == "" {
		icon = DefaultCloseIcon
	}

	r := &Renderer{
		templates: templates,
		icon:      icon,
		className: sanitizeClassList(cfg.className),
	}
	if cfg.inlineStyles {
		r.stylesheet = defaultStylesheet()
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render builds the view for tags and executes tags.tmpl.
func (r *Renderer) Render(ctx context.Context, tags []filtertags.Tag, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	view := render.BuildView(tags, options)
	data := map[string]any{
		"view":       view,
		"locale":     view.Locale,
		"icon":       r.icon,
		"class_name": r.className,
		"stylesheet": r.stylesheet,
	}
	// Request translators shadow the helpers registered at construction so
	// swapped messages reach the template too.
	if options.Translator != nil {
		for name, fn := range render.TemplateI18nFuncs(options.Translator, render.TemplateI18nConfig{OnMissing: options.OnMissing}) {
			data[name] = fn
		}
	}
	result, err := r.templates.RenderTemplate("tags.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}
