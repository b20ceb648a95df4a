package filtertags_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/goliatone/go-filtertags/pkg/filtertags"
)

type status string

func TestClassify_Kinds(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	var nilTime *time.Time
	var nilSlice []string

	cases := []struct {
		name  string
		value any
		want  filtertags.Kind
	}{
		{name: "nil", value: nil, want: filtertags.KindEmpty},
		{name: "empty string", value: "", want: filtertags.KindEmpty},
		{name: "empty named string", value: status(""), want: filtertags.KindEmpty},
		{name: "nil pointer", value: nilTime, want: filtertags.KindEmpty},
		{name: "date range", value: []time.Time{start, end}, want: filtertags.KindDateRange},
		{name: "date range any", value: []any{start, &end}, want: filtertags.KindDateRange},
		{name: "single date element", value: []any{start}, want: filtertags.KindDateRange},
		{name: "strings", value: []string{"js", "go"}, want: filtertags.KindPrimitiveArray},
		{name: "numbers", value: []int{1, 2}, want: filtertags.KindPrimitiveArray},
		{name: "mixed string number", value: []any{"js", 2.5, json.Number("3")}, want: filtertags.KindPrimitiveArray},
		{name: "array type", value: [2]string{"a", "b"}, want: filtertags.KindPrimitiveArray},
		{name: "empty array", value: []any{}, want: filtertags.KindPrimitiveArray},
		{name: "nil slice", value: nilSlice, want: filtertags.KindPrimitiveArray},
		{name: "date and string", value: []any{start, "2024-01-31"}, want: filtertags.KindMalformed},
		{name: "bools in array", value: []any{true, false}, want: filtertags.KindMalformed},
		{name: "nil element", value: []any{"a", nil}, want: filtertags.KindMalformed},
		{name: "nested array", value: []any{[]string{"a"}}, want: filtertags.KindMalformed},
		{name: "bool true", value: true, want: filtertags.KindBoolean},
		{name: "bool false", value: false, want: filtertags.KindBoolean},
		{name: "string", value: "example", want: filtertags.KindScalar},
		{name: "string disguised boolean", value: "0", want: filtertags.KindScalar},
		{name: "number", value: 42, want: filtertags.KindScalar},
		{name: "zero", value: 0, want: filtertags.KindScalar},
		{name: "bytes", value: []byte("raw"), want: filtertags.KindScalar},
		{name: "single time", value: start, want: filtertags.KindScalar},
		{name: "map", value: map[string]any{"a": 1}, want: filtertags.KindScalar},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := filtertags.Classify(tc.value)
			if got.Kind != tc.want {
				t.Fatalf("classify %#v: want %s, got %s", tc.value, tc.want, got.Kind)
			}
		})
	}
}

func TestClassify_CarriesElementsAndDates(t *testing.T) {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	dates := filtertags.Classify([]any{start, start})
	if len(dates.Dates) != 2 || !dates.Dates[0].Equal(start) {
		t.Fatalf("expected two parsed dates, got %#v", dates.Dates)
	}

	prims := filtertags.Classify([]string{"a", "b", "c"})
	if len(prims.Elements) != 3 || prims.Elements[1] != "b" {
		t.Fatalf("expected elements to be unpacked in order, got %#v", prims.Elements)
	}
}

func TestKind_String(t *testing.T) {
	if got := filtertags.KindDateRange.String(); got != "date-range" {
		t.Fatalf("unexpected kind name %q", got)
	}
	if got := filtertags.Kind(99).String(); got != "unknown" {
		t.Fatalf("expected unknown for out of range kind, got %q", got)
	}
}

func TestKind_TextRoundTrip(t *testing.T) {
	for _, kind := range []filtertags.Kind{filtertags.KindEmpty, filtertags.KindPrimitiveArray, filtertags.KindMalformed} {
		text, _ := kind.MarshalText()
		var got filtertags.Kind
		if err := got.UnmarshalText(text); err != nil || got != kind {
			t.Fatalf("round trip %s: got %s (%v)", kind, got, err)
		}
	}
	var k filtertags.Kind
	if err := k.UnmarshalText([]byte("tuple")); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
