package formstate_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-filtertags/pkg/formstate"
)

func TestParseJSON_KeepsDocumentOrder(t *testing.T) {
	data := []byte(`{"username":"example","isActive":"1","skills":["javascript","php"],"page":2,"meta":{"a":true},"none":null}`)

	snapshot, err := formstate.ParseJSON(data)
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}

	wantNames := []string{"username", "isActive", "skills", "page", "meta", "none"}
	if diff := cmp.Diff(wantNames, snapshot.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	wantValues := map[string]any{
		"username": "example",
		"isActive": "1",
		"skills":   []any{"javascript", "php"},
		"page":     float64(2),
		"meta":     map[string]any{"a": true},
		"none":     nil,
	}
	if diff := cmp.Diff(wantValues, snapshot.Map()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJSON_RejectsNonObjects(t *testing.T) {
	if _, err := formstate.ParseJSON([]byte(`["a"]`)); err == nil {
		t.Fatalf("expected error for array payload")
	}
	snapshot, err := formstate.ParseJSON([]byte("  "))
	if err != nil || snapshot.Len() != 0 {
		t.Fatalf("expected empty snapshot for blank input, got %v (%v)", snapshot.Len(), err)
	}
}

func TestParseYAML_TimestampsAndOrder(t *testing.T) {
	data := []byte(`
skills: [js, go]
period:
  - 2024-01-02
  - 2024-01-31
isActive: "1"
enabled: true
`)
	snapshot, err := formstate.ParseYAML(data)
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}

	if diff := cmp.Diff([]string{"skills", "period", "isActive", "enabled"}, snapshot.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	period, _ := snapshot.Get("period")
	want := []any{
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	if diff := cmp.Diff(want, period); diff != "" {
		t.Fatalf("period mismatch (-want +got):\n%s", diff)
	}
	if value, _ := snapshot.Get("isActive"); value != "1" {
		t.Fatalf("quoted scalar should stay a string, got %#v", value)
	}
	if value, _ := snapshot.Get("enabled"); value != true {
		t.Fatalf("expected bool, got %#v", value)
	}
}

func TestFromStruct(t *testing.T) {
	type filters struct {
		Search   string   `form:"s"`
		Skills   []string `json:"skills,omitempty"`
		IsActive *string  `json:"isActive"`
		Internal string   `form:"-"`
		Page     int
		hidden   string
	}

	snapshot, err := formstate.FromStruct(&filters{Search: "", Skills: []string{"go"}, Page: 3, hidden: "x"})
	if err != nil {
		t.Fatalf("from struct: %v", err)
	}

	if diff := cmp.Diff([]string{"s", "skills", "isActive", "Page"}, snapshot.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if value, _ := snapshot.Get("isActive"); value != nil {
		t.Fatalf("expected nil pointer to become nil, got %#v", value)
	}

	if _, err := formstate.FromStruct(42); err == nil {
		t.Fatalf("expected error for non-struct input")
	}
}
