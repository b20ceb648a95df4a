package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-filtertags/pkg/filtertags"
	"github.com/goliatone/go-filtertags/pkg/formstate"
	"github.com/goliatone/go-filtertags/pkg/labels"
	pkgopenapi "github.com/goliatone/go-filtertags/pkg/openapi"
	"github.com/goliatone/go-filtertags/pkg/render"
	"github.com/goliatone/go-filtertags/pkg/renderers/vanilla"
)

const defaultRendererName = vanilla.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom OpenAPI loader.
func WithLoader(loader *pkgopenapi.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithCatalog sets the label catalog. It can be replaced later with
// SetCatalog.
func WithCatalog(catalog *labels.Catalog) Option {
	return func(o *Orchestrator) {
		o.catalog = catalog
	}
}

// WithMessages sets the translator used for labels and renderer chrome.
func WithMessages(t labels.Translator, onMissing labels.MissingTranslationHandler) Option {
	return func(o *Orchestrator) {
		o.messages = t
		o.onMissing = onMissing
	}
}

// WithHints applies OpenAPI-derived hints to every request that does not
// carry its own document.
func WithHints(hints pkgopenapi.Hints) Option {
	return func(o *Orchestrator) {
		h := hints
		o.hints = &h
	}
}

// WithSchema sets the form schema used when no hints are available.
func WithSchema(schema formstate.Schema) Option {
	return func(o *Orchestrator) {
		o.schema = schema
	}
}

// WithTheme passes resolved theme tokens to renderers.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(o *Orchestrator) {
		o.theme = cfg
	}
}

// WithDefaultLocale sets the locale used when a request omits one.
func WithDefaultLocale(locale string) Option {
	return func(o *Orchestrator) {
		o.locale = strings.TrimSpace(locale)
	}
}

// Orchestrator coordinates the pipeline from form state to rendered tags. It
// applies sensible defaults (vanilla renderer, empty catalog) while remaining
// open to dependency injection.
type Orchestrator struct {
	mu sync.RWMutex

	loader          *pkgopenapi.Loader
	registry        *render.Registry
	defaultRenderer string
	catalog         *labels.Catalog
	messages        labels.Translator
	onMissing       labels.MissingTranslationHandler
	hints           *pkgopenapi.Hints
	schema          formstate.Schema
	theme           *theme.RendererConfig
	locale          string
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{defaultRenderer: defaultRendererName}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the form state tags are derived from.
type Request struct {
	// Snapshot is the form state. When nil, Query is decoded instead.
	Snapshot *formstate.Snapshot

	// Query is a raw URL query decoded against the resolved schema.
	Query string

	// Source identifies an OpenAPI document whose OperationID describes the
	// form. Optional when Document is supplied or hints are configured.
	Source pkgopenapi.Source

	// Document allows callers to bypass the loader.
	Document *pkgopenapi.Document

	// OperationID selects the list operation in Source or Document.
	OperationID string

	// Locale overrides the default locale.
	Locale string

	// Renderer names the renderer to use. Empty selects the default.
	Renderer string

	// RenderOptions carries per-request render settings. Snapshot, Schema,
	// Locale, Translator and Theme are filled in when left empty.
	RenderOptions render.RenderOptions
}

// Prepared is the resolved state of a request.
type Prepared struct {
	Schema     formstate.Schema
	Snapshot   formstate.Snapshot
	Translator *filtertags.Translator
	Tags       []filtertags.Tag
	Options    render.RenderOptions
}

// Output is a rendered request.
type Output struct {
	Prepared
	Body        []byte
	ContentType string
}

// SetCatalog swaps the label catalog. Requests already in flight keep the
// catalog they started with.
func (o *Orchestrator) SetCatalog(catalog *labels.Catalog) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.catalog = catalog
}

// SetMessages swaps the translator used for labels and chrome.
func (o *Orchestrator) SetMessages(t labels.Translator) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = t
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

// Prepare resolves the schema, decodes the form state and derives its tags.
func (o *Orchestrator) Prepare(ctx context.Context, req Request) (Prepared, error) {
	if ctx == nil {
		return Prepared{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Prepared{}, err
	}
	if err := o.initialiseErr; err != nil {
		return Prepared{}, err
	}

	hints, err := o.resolveHints(ctx, req)
	if err != nil {
		return Prepared{}, err
	}

	schema := o.schema
	if hints != nil {
		schema = hints.Schema()
		schema.DateLayout = o.schema.DateLayout
	}

	var snapshot formstate.Snapshot
	if req.Snapshot != nil {
		snapshot = schema.Normalize(*req.Snapshot)
	} else {
		snapshot, err = formstate.DecodeQuery(req.Query, schema)
		if err != nil {
			return Prepared{}, fmt.Errorf("orchestrator: decode query: %w", err)
		}
	}

	o.mu.RLock()
	catalog, messages, onMissing := o.catalog, o.messages, o.onMissing
	o.mu.RUnlock()

	locale := strings.TrimSpace(req.Locale)
	if locale == "" {
		locale = o.locale
	}
	if locale == "" && catalog != nil {
		locale = catalog.Locale
	}

	translator := newTranslator(catalog, hints, locale, messages, onMissing)

	opts := req.RenderOptions
	if opts.Snapshot.Len() == 0 {
		opts.Snapshot = snapshot
	}
	if len(opts.Schema.Fields) == 0 && len(opts.Schema.ArrayFields) == 0 && len(opts.Schema.DateFields) == 0 {
		opts.Schema = schema
	}
	if opts.Locale == "" {
		opts.Locale = locale
	}
	if opts.Translator == nil {
		opts.Translator = messages
	}
	if opts.OnMissing == nil {
		opts.OnMissing = onMissing
	}
	if opts.Theme == nil {
		opts.Theme = o.theme
	}

	return Prepared{
		Schema:     schema,
		Snapshot:   snapshot,
		Translator: translator,
		Tags:       translator.Collect(snapshot),
		Options:    opts,
	}, nil
}

// Tags derives the tags of a request without rendering them.
func (o *Orchestrator) Tags(ctx context.Context, req Request) ([]filtertags.Tag, error) {
	prepared, err := o.Prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return prepared.Options.Subset.Apply(prepared.Tags), nil
}

// Generate derives the tags of a request and renders them with the requested
// renderer.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Output, error) {
	prepared, err := o.Prepare(ctx, req)
	if err != nil {
		return Output{}, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return Output{}, err
	}

	body, err := renderer.Render(ctx, prepared.Tags, prepared.Options)
	if err != nil {
		return Output{}, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return Output{Prepared: prepared, Body: body, ContentType: renderer.ContentType()}, nil
}

func (o *Orchestrator) resolveHints(ctx context.Context, req Request) (*pkgopenapi.Hints, error) {
	if req.Document == nil && req.Source == nil {
		return o.hints, nil
	}
	if strings.TrimSpace(req.OperationID) == "" {
		return nil, errors.New("orchestrator: operation id is required")
	}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return nil, err
	}
	hints, err := pkgopenapi.HintsFromDocument(ctx, doc, req.OperationID)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return &hints, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (pkgopenapi.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	return o.registry.Get(names[0])
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = pkgopenapi.NewLoader()
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.registry != nil {
		return
	}

	renderer, err := vanilla.New(vanilla.WithTranslator(o.messages, o.onMissing))
	if err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		return
	}
	registry, err := render.NewRegistry(renderer)
	if err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: default registry: %w", err)
		return
	}
	o.registry = registry
}
