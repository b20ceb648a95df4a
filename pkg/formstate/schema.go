package formstate

import (
	"strings"
	"time"
)

// DefaultDateLayout is the wire layout used for date values in queries.
const DefaultDateLayout = "2006-01-02"

// Schema declares the fields of a filter form. Declared fields are always
// present in normalised snapshots (nil when unset) and appear first, in
// declaration order.
type Schema struct {
	// Fields lists the form fields in display order.
	Fields []string `json:"fields,omitempty" yaml:"fields,omitempty"`
	// ArrayFields hold multi-value selections (multi-selects, checkbox groups).
	ArrayFields []string `json:"arrayFields,omitempty" yaml:"arrayFields,omitempty"`
	// DateFields hold dates; combined with ArrayFields they describe ranges.
	DateFields []string `json:"dateFields,omitempty" yaml:"dateFields,omitempty"`
	// DateLayout parses and formats date values. Defaults to DefaultDateLayout.
	DateLayout string `json:"dateLayout,omitempty" yaml:"dateLayout,omitempty"`
}

// IsArray reports whether name is declared as multi-valued. Date fields are
// treated as ranges, hence arrays, too.
func (s Schema) IsArray(name string) bool {
	return contains(s.ArrayFields, name) || contains(s.DateFields, name)
}

// IsDate reports whether name is declared as a date field.
func (s Schema) IsDate(name string) bool {
	return contains(s.DateFields, name)
}

// Layout returns the configured date layout.
func (s Schema) Layout() string {
	if layout := strings.TrimSpace(s.DateLayout); layout != "" {
		return layout
	}
	return DefaultDateLayout
}

// Normalize coerces values to the declared shapes: date strings are parsed,
// scalars of array fields are wrapped, and declared fields missing from the
// snapshot are added as nil. Values that do not parse are kept verbatim.
func (s Schema) Normalize(snapshot Snapshot) Snapshot {
	fields := make([]Field, 0, len(s.Fields)+snapshot.Len())
	for _, name := range s.Fields {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		value, _ := snapshot.Get(name)
		fields = append(fields, Field{Name: name, Value: s.coerce(name, value)})
	}
	for name, value := range snapshot.All() {
		if contains(s.Fields, name) {
			continue
		}
		fields = append(fields, Field{Name: name, Value: s.coerce(name, value)})
	}
	return NewSnapshot(fields...)
}

func (s Schema) coerce(name string, value any) any {
	if value == nil {
		return nil
	}
	if s.IsDate(name) {
		value = s.parseDates(value)
	}
	if !s.IsArray(name) {
		return value
	}
	switch v := value.(type) {
	case []any, []string, []time.Time:
		return v
	case string:
		if v == "" {
			return nil
		}
		return []any{v}
	default:
		return []any{v}
	}
}

func (s Schema) parseDates(value any) any {
	switch v := value.(type) {
	case string:
		return s.parseDate(v)
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = s.parseDate(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			if str, ok := item.(string); ok {
				out[i] = s.parseDate(str)
				continue
			}
			out[i] = item
		}
		return out
	default:
		return value
	}
}

func (s Schema) parseDate(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return raw
	}
	for _, layout := range []string{s.Layout(), time.RFC3339, DefaultDateLayout} {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed
		}
	}
	return raw
}

func contains(values []string, name string) bool {
	for _, value := range values {
		if strings.TrimSpace(value) == name {
			return true
		}
	}
	return false
}
