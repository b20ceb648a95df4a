package render

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-filtertags/pkg/labels"
)

// Chrome message keys looked up through RenderOptions.Translator.
const (
	KeyClearAll = "filters.clearAll"
	KeyRemove   = "filters.remove"
	KeyEmpty    = "filters.empty"
	KeyHeading  = "filters.heading"
)

var chromeDefaults = map[string]string{
	KeyClearAll: "Clear all",
	KeyRemove:   "Remove filter",
	KeyEmpty:    "No active filters",
	KeyHeading:  "Active filters",
}

// Chrome resolves a renderer chrome string for key, falling back to the
// built-in English text.
func (o RenderOptions) Chrome(key string) string {
	fallback := chromeDefaults[key]
	if fallback == "" {
		fallback = key
	}
	return translate(o.Locale, key, fallback, o.Translator, o.OnMissing)
}

func translate(locale, key, fallback string, t labels.Translator, onMissing labels.MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	if t == nil {
		if onMissing != nil {
			return onMissing(locale, key, fallback, labels.ErrMissingTranslator)
		}
		return fallback
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	if onMissing != nil {
		return onMissing(locale, key, fallback, err)
	}
	return fallback
}

// TemplateI18nConfig configures template-level translation helpers.
type TemplateI18nConfig struct {
	// LocaleKey selects the field used to infer the locale when templates
	// pass a map or struct instead of a locale string.
	LocaleKey string
	// FuncName customizes the translator helper name (defaults to "translate").
	FuncName string
	// OnMissing controls the string returned when a translation is missing.
	OnMissing labels.MissingTranslationHandler
}

// TemplateI18nFuncs returns helpers for template engines:
//
//	translate(localeSrc, key) string
//	current_locale(localeSrc) string
//
// Missing keys fall back to the built-in chrome text, then the key.
func TemplateI18nFuncs(t labels.Translator, cfg TemplateI18nConfig) map[string]any {
	localeKey := strings.TrimSpace(cfg.LocaleKey)
	if localeKey == "" {
		localeKey = "locale"
	}
	translateName := strings.TrimSpace(cfg.FuncName)
	if translateName == "" {
		translateName = "translate"
	}

	return map[string]any{
		translateName: func(localeSrc any, key string) string {
			fallback := chromeDefaults[strings.TrimSpace(key)]
			if fallback == "" {
				fallback = key
			}
			return translate(resolveLocale(localeSrc, localeKey), key, fallback, t, cfg.OnMissing)
		},
		"current_locale": func(localeSrc any) string {
			return resolveLocale(localeSrc, localeKey)
		},
	}
}

func resolveLocale(src any, key string) string {
	switch data := src.(type) {
	case nil:
		return ""
	case string:
		return data
	case map[string]any:
		if v, ok := data[key]; ok && v != nil {
			return strings.TrimSpace(fmt.Sprint(v))
		}
		return ""
	case map[string]string:
		return data[key]
	}

	value := reflect.ValueOf(src)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return ""
		}
		value = value.Elem()
	}
	if value.Kind() == reflect.Struct {
		field := value.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, key)
		})
		if field.IsValid() && field.Kind() == reflect.String {
			return field.String()
		}
	}
	return ""
}
