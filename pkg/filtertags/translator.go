package filtertags

import (
	"iter"
	"strconv"
	"strings"

	"github.com/goliatone/go-filtertags/pkg/formstate"
)

// Form is the form-state handle tags are derived from and dismissed against.
// It is satisfied by formstate.Store implementations.
type Form = formstate.Store

// Labeler turns field names and raw values into display text. Implementations
// must be total: unknown input falls back to the input itself. Panics raised by
// a labeler are not recovered.
type Labeler interface {
	LabelOf(field string) string
	ValueLabelOf(raw string) string
}

// LabelerFuncs adapts two plain functions to Labeler. Nil functions behave as
// the identity.
type LabelerFuncs struct {
	Label func(field string) string
	Value func(raw string) string
}

func (f LabelerFuncs) LabelOf(field string) string {
	if f.Label == nil {
		return field
	}
	return f.Label(field)
}

func (f LabelerFuncs) ValueLabelOf(raw string) string {
	if f.Value == nil {
		return raw
	}
	return f.Value(raw)
}

// Tag is a dismissible token describing one active filter value.
type Tag struct {
	// Key is unique within one render: the field name, or field[element] for
	// tags produced from primitive arrays. Elements that stringify alike
	// (the string "1" and the number 1, or repeated values) get a "#n"
	// occurrence suffix from the second one on.
	Key       string    `json:"key"`
	Field     string    `json:"field"`
	Kind      Kind      `json:"kind"`
	Label     string    `json:"label"`
	Value     string    `json:"value"`
	Element   any       `json:"element,omitempty"`
	Dismissal Dismissal `json:"dismissal"`
}

// Option configures a Translator.
type Option func(*Translator)

// WithLabeler sets both label formatters.
func WithLabeler(labeler Labeler) Option {
	return func(t *Translator) {
		if labeler != nil {
			t.labeler = labeler
		}
	}
}

// WithLabelFunc overrides the field label formatter.
func WithLabelFunc(fn func(field string) string) Option {
	return func(t *Translator) {
		if fn != nil {
			t.labelFn = fn
		}
	}
}

// WithValueLabelFunc overrides the value label formatter.
func WithValueLabelFunc(fn func(raw string) string) Option {
	return func(t *Translator) {
		if fn != nil {
			t.valueFn = fn
		}
	}
}

// WithBooleanKeys declares fields whose string values "0"/"1" stand in for
// booleans (radio buttons and segmented controls submit them that way).
func WithBooleanKeys(keys ...string) Option {
	return func(t *Translator) {
		for _, key := range keys {
			if key = strings.TrimSpace(key); key != "" {
				t.booleanKeys[key] = struct{}{}
			}
		}
	}
}

// WithDateLayout overrides the Go time layout used for date values.
func WithDateLayout(layout string) Option {
	return func(t *Translator) {
		if layout != "" {
			t.dateLayout = layout
		}
	}
}

// WithRangeSeparator overrides the text placed between range dates.
func WithRangeSeparator(separator string) Option {
	return func(t *Translator) {
		if separator != "" {
			t.separator = separator
		}
	}
}

// Translator projects form snapshots into tags. It holds configuration only;
// every call recomputes tags from the snapshot it is given.
type Translator struct {
	labeler     Labeler
	labelFn     func(string) string
	valueFn     func(string) string
	booleanKeys map[string]struct{}
	dateLayout  string
	separator   string
}

// New constructs a Translator. Without formatters, labels and values are shown
// verbatim.
func New(options ...Option) *Translator {
	t := &Translator{
		labeler:     LabelerFuncs{},
		booleanKeys: make(map[string]struct{}),
		dateLayout:  DefaultDateLayout,
		separator:   DefaultRangeSeparator,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(t)
	}
	return t
}

// IsBooleanKey reports whether field was declared through WithBooleanKeys.
func (t *Translator) IsBooleanKey(field string) bool {
	_, ok := t.booleanKeys[field]
	return ok
}

// Tags lazily yields the tags for snapshot, grouped by field in snapshot
// order.
func (t *Translator) Tags(snapshot formstate.Snapshot) iter.Seq[Tag] {
	return func(yield func(Tag) bool) {
		for name, value := range snapshot.All() {
			for _, tag := range t.FieldTags(name, value) {
				if !yield(tag) {
					return
				}
			}
		}
	}
}

// Collect returns every tag for snapshot.
func (t *Translator) Collect(snapshot formstate.Snapshot) []Tag {
	var out []Tag
	for tag := range t.Tags(snapshot) {
		out = append(out, tag)
	}
	return out
}

// Translate reads a fresh snapshot from form and returns its tags.
func (t *Translator) Translate(form Form) []Tag {
	if form == nil {
		return nil
	}
	return t.Collect(form.Snapshot())
}

// FieldTags classifies a single field and returns zero or more tags for it.
func (t *Translator) FieldTags(field string, value any) []Tag {
	c := Classify(value)
	switch c.Kind {
	case KindEmpty, KindMalformed:
		return nil
	case KindDateRange:
		return []Tag{t.single(field, c.Kind, formatDates(c.Dates, t.dateLayout, t.separator))}
	case KindPrimitiveArray:
		label := t.labelOf(field)
		tags := make([]Tag, 0, len(c.Elements))
		seen := make(map[string]int, len(c.Elements))
		for _, element := range c.Elements {
			raw := stringify(element, t.dateLayout)
			key := field + "[" + raw + "]"
			seen[key]++
			if n := seen[key]; n > 1 {
				key += "#" + strconv.Itoa(n)
			}
			tags = append(tags, Tag{
				Key:       key,
				Field:     field,
				Kind:      c.Kind,
				Label:     label,
				Value:     t.valueLabelOf(raw),
				Element:   element,
				Dismissal: RemoveElement(field, element),
			})
		}
		return tags
	case KindBoolean:
		return []Tag{t.single(field, c.Kind, t.valueLabelOf(stringify(value, t.dateLayout)))}
	default:
		raw := stringify(value, t.dateLayout)
		if t.IsBooleanKey(field) {
			if raw == "1" {
				raw = "true"
			} else {
				raw = "false"
			}
		}
		return []Tag{t.single(field, c.Kind, t.valueLabelOf(raw))}
	}
}

func (t *Translator) single(field string, kind Kind, display string) Tag {
	return Tag{
		Key:       field,
		Field:     field,
		Kind:      kind,
		Label:     t.labelOf(field),
		Value:     display,
		Dismissal: Clear(field),
	}
}

func (t *Translator) labelOf(field string) string {
	if t.labelFn != nil {
		return t.labelFn(field)
	}
	return t.labeler.LabelOf(field)
}

func (t *Translator) valueLabelOf(raw string) string {
	if t.valueFn != nil {
		return t.valueFn(raw)
	}
	return t.labeler.ValueLabelOf(raw)
}
