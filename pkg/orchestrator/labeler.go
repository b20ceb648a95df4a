package orchestrator

import (
	"github.com/goliatone/go-filtertags/pkg/filtertags"
	"github.com/goliatone/go-filtertags/pkg/labels"
	pkgopenapi "github.com/goliatone/go-filtertags/pkg/openapi"
)

// newTranslator layers the catalog over OpenAPI hints: catalog labels win,
// hint labels fill the gaps, and boolean keys from both apply.
func newTranslator(catalog *labels.Catalog, hints *pkgopenapi.Hints, locale string, messages labels.Translator, onMissing labels.MissingTranslationHandler) *filtertags.Translator {
	merged := cloneCatalog(catalog)
	if hints != nil {
		merged.MergeFields(hints.Labels)
		merged.AddBooleanKeys(hints.BooleanKeys...)
	}

	options := []filtertags.Option{
		filtertags.WithLabeler(merged.Localized(locale, messages, onMissing)),
		filtertags.WithBooleanKeys(merged.BooleanKeys...),
	}
	if merged.DateLayout != "" {
		options = append(options, filtertags.WithDateLayout(merged.DateLayout))
	}
	if merged.RangeSeparator != "" {
		options = append(options, filtertags.WithRangeSeparator(merged.RangeSeparator))
	}
	return filtertags.New(options...)
}

func cloneCatalog(catalog *labels.Catalog) *labels.Catalog {
	if catalog == nil {
		return &labels.Catalog{}
	}
	out := *catalog
	out.Fields = cloneMap(catalog.Fields)
	out.Values = cloneMap(catalog.Values)
	out.BooleanKeys = append([]string(nil), catalog.BooleanKeys...)
	return &out
}

func cloneMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
