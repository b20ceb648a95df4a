package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-filtertags/pkg/formstate"
	"github.com/goliatone/go-filtertags/pkg/labels"
)

// DefaultColor is the tag color used when RenderOptions.Color is empty.
const DefaultColor = "cyan"

// RenderOptions describe per-request data renderers use to build dismiss links
// and chrome around the tags.
type RenderOptions struct {
	// Snapshot is the form state the tags were derived from. Dismiss links are
	// computed by applying each tag's dismissal to it.
	Snapshot formstate.Snapshot
	// Schema encodes dismiss links (array fields, date layout).
	Schema formstate.Schema
	// Action is the path dismiss links point at. Empty yields "?query" hrefs.
	Action string
	// Locale selects translations for renderer chrome.
	Locale string
	// Translator resolves chrome strings such as the clear-all label.
	Translator labels.Translator
	// OnMissing picks the text for chrome keys the translator lacks.
	OnMissing labels.MissingTranslationHandler
	// Theme carries resolved go-theme tokens and CSS variables.
	Theme *theme.RendererConfig
	// ClearAllLabel overrides the clear-all link text. The link is only
	// rendered when more than one tag is present.
	ClearAllLabel string
	// Color names the tag color modifier. Defaults to DefaultColor.
	Color string
	// Subset restricts the rendered tags.
	Subset TagSubset
}
