package render

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-filtertags/pkg/filtertags"
	"github.com/goliatone/go-filtertags/pkg/formstate"
)

// StylesheetAsset is the theme asset key resolved for the tags stylesheet.
const StylesheetAsset = "filtertags.stylesheet"

// View is the presentation model shared by renderers.
type View struct {
	Locale      string    `json:"locale,omitempty"`
	Action      string    `json:"action,omitempty"`
	Color       string    `json:"color"`
	Tags        []TagView `json:"tags"`
	ClearAll    *Link     `json:"clearAll,omitempty"`
	RemoveLabel string    `json:"removeLabel"`
	EmptyText   string    `json:"emptyText"`
	Theme       ThemeView `json:"theme"`
}

// TagView is one rendered tag.
type TagView struct {
	Key   string `json:"key"`
	Field string `json:"field"`
	Kind  string `json:"kind"`
	Label string `json:"label"`
	Value string `json:"value"`
	// Text is "label: value".
	Text string `json:"text"`
	// DismissQuery is the encoded form state once this tag is dismissed.
	DismissQuery string `json:"dismissQuery"`
	DismissHref  string `json:"dismissHref"`
}

// Link is a labelled href.
type Link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// ThemeView flattens a go-theme renderer config for templates.
type ThemeView struct {
	Name         string            `json:"name,omitempty"`
	Variant      string            `json:"variant,omitempty"`
	Tokens       map[string]string `json:"tokens,omitempty"`
	CSSVars      map[string]string `json:"cssVars,omitempty"`
	CSSVarsStyle string            `json:"cssVarsStyle,omitempty"`
	Stylesheet   string            `json:"stylesheet,omitempty"`
}

// BuildView prepares tags for presentation: it applies the subset, strips
// markup from labels, and computes the href each tag's dismissal leads to.
// Values are user data and are left for renderers to escape.
func BuildView(tags []filtertags.Tag, opts RenderOptions) View {
	tags = opts.Subset.Apply(tags)

	color := strings.TrimSpace(opts.Color)
	if color == "" {
		color = DefaultColor
	}

	view := View{
		Locale:      opts.Locale,
		Action:      opts.Action,
		Color:       color,
		Tags:        make([]TagView, 0, len(tags)),
		RemoveLabel: PlainText(opts.Chrome(KeyRemove)),
		EmptyText:   PlainText(opts.Chrome(KeyEmpty)),
		Theme:       buildThemeView(opts.Theme),
	}

	for _, tag := range tags {
		label := PlainText(tag.Label)
		value := tag.Value
		query := formstate.EncodeQuery(tag.Dismissal.ApplyTo(opts.Snapshot), opts.Schema)
		view.Tags = append(view.Tags, TagView{
			Key:          tag.Key,
			Field:        tag.Field,
			Kind:         tag.Kind.String(),
			Label:        label,
			Value:        value,
			Text:         label + ": " + value,
			DismissQuery: query,
			DismissHref:  href(opts.Action, query),
		})
	}

	if len(tags) > 1 {
		label := strings.TrimSpace(opts.ClearAllLabel)
		if label == "" {
			label = opts.Chrome(KeyClearAll)
		}
		view.ClearAll = &Link{
			Label: PlainText(label),
			Href:  href(opts.Action, formstate.EncodeQuery(ClearAll(tags, opts.Snapshot), opts.Schema)),
		}
	}
	return view
}

// ClearAll returns snapshot with every field referenced by tags cleared.
func ClearAll(tags []filtertags.Tag, snapshot formstate.Snapshot) formstate.Snapshot {
	for _, tag := range tags {
		snapshot = filtertags.Clear(tag.Field).ApplyTo(snapshot)
	}
	return snapshot
}

func href(action, query string) string {
	if query == "" {
		if action == "" {
			return "?"
		}
		return action
	}
	return action + "?" + query
}

func buildThemeView(cfg *theme.RendererConfig) ThemeView {
	if cfg == nil {
		return ThemeView{}
	}
	view := ThemeView{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Tokens:  copyStringMap(cfg.Tokens),
		CSSVars: copyStringMap(cfg.CSSVars),
	}
	view.CSSVarsStyle = cssVarsStyle(view.CSSVars)
	if cfg.AssetURL != nil {
		view.Stylesheet = cfg.AssetURL(StylesheetAsset)
	}
	return view
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		name := strings.TrimSpace(key)
		if name == "" {
			continue
		}
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(PlainText(vars[key]))
		b.WriteString("; ")
	}
	return strings.TrimSpace(b.String())
}

// ThemeFromTokens builds a renderer config from a flat token map, deriving
// CSS variables named after the tokens.
func ThemeFromTokens(name, variant string, tokens map[string]string, assetURL func(string) string) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Theme:    name,
		Variant:  variant,
		Tokens:   copyStringMap(tokens),
		AssetURL: assetURL,
	}
	if len(tokens) > 0 {
		cfg.CSSVars = make(map[string]string, len(tokens))
		for key, value := range tokens {
			cfg.CSSVars["--"+strings.TrimPrefix(strings.TrimSpace(key), "--")] = value
		}
	}
	return cfg
}
