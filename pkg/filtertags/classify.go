package filtertags

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// Kind identifies the shape a field value was classified as.
type Kind int

const (
	// KindEmpty covers nil and the empty string; it never produces a tag.
	KindEmpty Kind = iota
	// KindDateRange is a non-empty sequence of dates rendered as one tag.
	KindDateRange
	// KindPrimitiveArray is a sequence of strings/numbers, one tag per element.
	KindPrimitiveArray
	// KindBoolean is a bool rendered through the value labeler.
	KindBoolean
	// KindScalar is the fallback for every other non-empty value.
	KindScalar
	// KindMalformed is a sequence mixing element types; it produces no tags.
	KindMalformed
)

var kindNames = [...]string{
	KindEmpty:          "empty",
	KindDateRange:      "date-range",
	KindPrimitiveArray: "primitive-array",
	KindBoolean:        "boolean",
	KindScalar:         "scalar",
	KindMalformed:      "malformed",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// MarshalText renders the kind name, keeping JSON payloads readable.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name produced by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("filtertags: unknown kind %q", text)
}

// Classification is the result of Classify. Elements is set for primitive
// arrays and Dates for date ranges.
type Classification struct {
	Kind     Kind
	Value    any
	Elements []any
	Dates    []time.Time
}

// Classify inspects a field value once and assigns exactly one Kind. The
// checks run in a fixed order: empty, date range, primitive array, boolean,
// scalar. A zero-length sequence is not a date range; it classifies as a
// primitive array without elements.
func Classify(value any) Classification {
	if isEmpty(value) {
		return Classification{Kind: KindEmpty, Value: value}
	}

	if items, ok := sequence(value); ok {
		if dates, ok := allDates(items); ok {
			return Classification{Kind: KindDateRange, Value: value, Dates: dates}
		}
		for _, item := range items {
			if !isPrimitive(item) {
				return Classification{Kind: KindMalformed, Value: value}
			}
		}
		return Classification{Kind: KindPrimitiveArray, Value: value, Elements: items}
	}

	if _, ok := value.(bool); ok {
		return Classification{Kind: KindBoolean, Value: value}
	}
	return Classification{Kind: KindScalar, Value: value}
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	case reflect.String:
		return rv.Len() == 0
	}
	return false
}

// sequence unpacks slices and arrays. Byte slices are text, not sequences.
func sequence(value any) ([]any, bool) {
	if v, ok := value.([]any); ok {
		return v, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func allDates(items []any) ([]time.Time, bool) {
	if len(items) == 0 {
		return nil, false
	}
	dates := make([]time.Time, 0, len(items))
	for _, item := range items {
		date, ok := asDate(item)
		if !ok {
			return nil, false
		}
		dates = append(dates, date)
	}
	return dates, true
}

func asDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	}
	return time.Time{}, false
}

func isPrimitive(value any) bool {
	switch value.(type) {
	case string, json.Number:
		return true
	}
	if value == nil {
		return false
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
