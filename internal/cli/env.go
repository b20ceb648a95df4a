package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-filtertags/internal/config"
	"github.com/goliatone/go-filtertags/pkg/labels"
	pkgopenapi "github.com/goliatone/go-filtertags/pkg/openapi"
	"github.com/goliatone/go-filtertags/pkg/orchestrator"
	"github.com/goliatone/go-filtertags/pkg/render"
	"github.com/goliatone/go-filtertags/pkg/renderers/tui"
	"github.com/goliatone/go-filtertags/pkg/renderers/vanilla"
)

// environment is everything a command needs to turn form state into tags.
type environment struct {
	cfg  *config.Config
	orch *orchestrator.Orchestrator
}

func newEnvironment(ctx context.Context, cfg *config.Config, renderers ...render.Renderer) (*environment, error) {
	catalog, err := loadCatalog(cfg.Labels)
	if err != nil {
		return nil, &ExitError{Code: 2, Err: err}
	}

	var messages labels.Translator
	if path := strings.TrimSpace(cfg.Messages); path != "" {
		loaded, err := labels.LoadMessages(path)
		if err != nil {
			return nil, &ExitError{Code: 2, Err: err}
		}
		messages = loaded
	}

	themeCfg := themeConfig(cfg.Theme)

	if len(renderers) == 0 {
		html, err := vanilla.New(vanilla.WithTranslator(messages, nil), vanilla.WithInlineStylesheet())
		if err != nil {
			return nil, err
		}
		renderers = append(renderers, html, tui.New(tui.WithDismissLinks()))
	}
	registry, err := render.NewRegistry(renderers...)
	if err != nil {
		return nil, err
	}

	options := []orchestrator.Option{
		orchestrator.WithRegistry(registry),
		orchestrator.WithCatalog(catalog),
		orchestrator.WithMessages(messages, nil),
		orchestrator.WithDefaultLocale(cfg.Locale),
		orchestrator.WithTheme(themeCfg),
	}

	if source := strings.TrimSpace(cfg.OpenAPI); source != "" {
		hints, err := loadHints(ctx, source, cfg.Operation)
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithHints(hints))
	}

	return &environment{cfg: cfg, orch: orchestrator.New(options...)}, nil
}

func loadCatalog(path string) (*labels.Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return &labels.Catalog{}, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("labels: %w", err)
	}
	if info.IsDir() {
		return labels.LoadFS(os.DirFS(path))
	}
	return labels.LoadFile(path)
}

func loadHints(ctx context.Context, location, operationID string) (pkgopenapi.Hints, error) {
	source, err := pkgopenapi.ParseSource(location)
	if err != nil {
		return pkgopenapi.Hints{}, &ExitError{Code: 2, Err: err}
	}
	loader := pkgopenapi.NewLoader(pkgopenapi.WithHTTPFallback(30 * time.Second))
	doc, err := loader.Load(ctx, source)
	if err != nil {
		return pkgopenapi.Hints{}, err
	}
	return pkgopenapi.HintsFromDocument(ctx, doc, operationID)
}

func themeConfig(t config.Theme) *theme.RendererConfig {
	if t.Name == "" && t.Variant == "" && len(t.Tokens) == 0 && t.Stylesheet == "" {
		return nil
	}
	var assetURL func(string) string
	if t.Stylesheet != "" {
		stylesheet := t.Stylesheet
		assetURL = func(key string) string {
			if key == render.StylesheetAsset {
				return stylesheet
			}
			return ""
		}
	}
	return render.ThemeFromTokens(t.Name, t.Variant, t.Tokens, assetURL)
}
