package formstate

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// DecodeQuery builds a snapshot from a raw (still escaped) query string.
// Unlike url.ParseQuery it keeps keys in order of first appearance. Repeated
// keys and keys ending in "[]" produce arrays; the schema then normalises
// declared fields.
func DecodeQuery(rawQuery string, schema Schema) (Snapshot, error) {
	rawQuery = strings.TrimPrefix(strings.TrimSpace(rawQuery), "?")

	var (
		order  []string
		values = make(map[string][]string)
		multi  = make(map[string]bool)
	)

	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return Snapshot{}, fmt.Errorf("formstate: decode query key %q: %w", rawKey, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return Snapshot{}, fmt.Errorf("formstate: decode query value for %q: %w", key, err)
		}
		if strings.HasSuffix(key, "[]") {
			key = strings.TrimSuffix(key, "[]")
			multi[key] = true
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, seen := values[key]; !seen {
			order = append(order, key)
		}
		values[key] = append(values[key], value)
	}

	fields := make([]Field, 0, len(order))
	for _, key := range order {
		items := values[key]
		if len(items) == 1 && !multi[key] && !schema.IsArray(key) {
			fields = append(fields, Field{Name: key, Value: items[0]})
			continue
		}
		list := make([]any, 0, len(items))
		for _, item := range items {
			if item == "" {
				continue
			}
			list = append(list, item)
		}
		fields = append(fields, Field{Name: key, Value: list})
	}

	return schema.Normalize(NewSnapshot(fields...)), nil
}

// EncodeQuery serialises a snapshot back into a query string, preserving field
// order. Empty values are omitted, sequences become repeated keys, and dates
// use the schema layout.
func EncodeQuery(snapshot Snapshot, schema Schema) string {
	var b strings.Builder
	write := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	for name, value := range snapshot.All() {
		for _, item := range queryValues(value, schema.Layout()) {
			write(name, item)
		}
	}
	return b.String()
}

func queryValues(value any, layout string) []string {
	if value == nil {
		return nil
	}
	if _, ok := value.([]byte); !ok {
		rv := reflect.ValueOf(value)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			out := make([]string, 0, rv.Len())
			for i := 0; i < rv.Len(); i++ {
				if str, ok := queryScalar(rv.Index(i).Interface(), layout); ok {
					out = append(out, str)
				}
			}
			return out
		}
	}
	if str, ok := queryScalar(value, layout); ok {
		return []string{str}
	}
	return nil
}

func queryScalar(value any, layout string) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, v != ""
	case []byte:
		return string(v), len(v) > 0
	case bool:
		return strconv.FormatBool(v), true
	case time.Time:
		return v.Format(layout), true
	case *time.Time:
		if v == nil {
			return "", false
		}
		return v.Format(layout), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return fmt.Sprint(v), true
	}
}
