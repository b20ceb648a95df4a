package labels

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	fieldKeyPrefix = "filters.fields."
	valueKeyPrefix = "filters.values."
)

// ErrMissingTranslator is passed to MissingTranslationHandler when no
// translator is configured.
var ErrMissingTranslator = errors.New("labels: translator not configured")

// ErrMissingTranslation is returned by MapTranslator for unknown keys.
var ErrMissingTranslation = errors.New("labels: missing translation")

// Translator resolves message keys for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler picks the text used when a key cannot be
// translated. fallback is the catalog label (or the raw input).
type MissingTranslationHandler func(locale, key, fallback string, err error) string

func missingTranslationDefault(_, _, fallback string, _ error) string {
	return fallback
}

// Localized layers a Translator over a Catalog. Lookups try the
// "filters.fields.<name>" / "filters.values.<raw>" keys first, then the
// catalog, then the input.
type Localized struct {
	catalog    *Catalog
	locale     string
	translator Translator
	onMissing  MissingTranslationHandler
}

// Localized returns a labeler bound to locale. A nil onMissing falls back to
// the catalog label silently.
func (c *Catalog) Localized(locale string, t Translator, onMissing MissingTranslationHandler) *Localized {
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	if strings.TrimSpace(locale) == "" && c != nil {
		locale = c.Locale
	}
	return &Localized{catalog: c, locale: locale, translator: t, onMissing: onMissing}
}

// LabelOf implements filtertags.Labeler.
func (l *Localized) LabelOf(field string) string {
	return l.translate(fieldKeyPrefix+field, l.catalog.LabelOf(field))
}

// ValueLabelOf implements filtertags.Labeler.
func (l *Localized) ValueLabelOf(raw string) string {
	return l.translate(valueKeyPrefix+raw, l.catalog.ValueLabelOf(raw))
}

// Locale reports the locale lookups are bound to.
func (l *Localized) Locale() string {
	return l.locale
}

func (l *Localized) translate(key, fallback string) string {
	if l.translator == nil {
		return l.onMissing(l.locale, key, fallback, ErrMissingTranslator)
	}
	msg, err := l.translator.Translate(l.locale, key)
	if err == nil && strings.TrimSpace(msg) != "" {
		return msg
	}
	return l.onMissing(l.locale, key, fallback, err)
}

// MapTranslator is a static Translator keyed by locale then message key.
// Messages may contain fmt verbs that are filled from args.
type MapTranslator map[string]map[string]string

var _ Translator = MapTranslator(nil)

// Translate looks key up for locale, then for the locale's base language
// ("es" for "es-MX").
func (m MapTranslator) Translate(locale, key string, args ...any) (string, error) {
	for _, candidate := range localeChain(locale) {
		if msg, ok := m[candidate][key]; ok {
			if len(args) > 0 {
				return fmt.Sprintf(msg, args...), nil
			}
			return msg, nil
		}
	}
	return "", fmt.Errorf("%w: %s/%s", ErrMissingTranslation, locale, key)
}

// LoadMessages reads a YAML (or JSON) file shaped as locale -> key -> message.
func LoadMessages(path string) (MapTranslator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("labels: read messages %s: %w", path, err)
	}
	var out MapTranslator
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("labels: parse messages %s: %w", path, err)
	}
	return out, nil
}

func localeChain(locale string) []string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return []string{""}
	}
	chain := []string{locale}
	if base, _, ok := strings.Cut(strings.ReplaceAll(locale, "_", "-"), "-"); ok && base != "" {
		chain = append(chain, base)
	}
	return chain
}
