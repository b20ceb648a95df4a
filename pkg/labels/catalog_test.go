package labels_test

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-filtertags/pkg/labels"
)

func TestLoadFS_MergesJSONAndYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"fields.yaml": {Data: []byte(`
locale: en
fields:
  isActive: Active
  skills: Skills
booleanKeys: [isActive]
`)},
		"values.json": {Data: []byte(`{"values":{"true":"Yes","false":"No"},"booleanKeys":["enabled","isActive"]}`)},
		"README.md":   {Data: []byte("ignored")},
	}

	catalog, err := labels.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}

	if catalog.Locale != "en" {
		t.Fatalf("expected locale from first file, got %q", catalog.Locale)
	}
	if diff := cmp.Diff([]string{"enabled", "isActive"}, catalog.BooleanKeys); diff != "" {
		t.Fatalf("boolean keys mismatch (-want +got):\n%s", diff)
	}
	if got := catalog.LabelOf("skills"); got != "Skills" {
		t.Fatalf("unexpected field label %q", got)
	}
	if got := catalog.LabelOf("unknown"); got != "unknown" {
		t.Fatalf("expected identity fallback, got %q", got)
	}
	if got := catalog.ValueLabelOf("true"); got != "Yes" {
		t.Fatalf("unexpected value label %q", got)
	}
}

func TestLoadFS_DuplicateLabels(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("fields:\n  status: Status\n")},
		"b.yaml": {Data: []byte("fields:\n  status: State\n")},
	}
	_, err := labels.LoadFS(fsys)
	if err == nil || !strings.Contains(err.Error(), "duplicate field label") {
		t.Fatalf("expected duplicate label error, got %v", err)
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := labels.Parse([]byte("  "), "empty.yaml"); err == nil {
		t.Fatalf("expected error for empty payload")
	}
	if _, err := labels.Parse([]byte("fields: [unterminated"), "bad.yaml"); err == nil {
		t.Fatalf("expected error for invalid payload")
	}
}

func TestCatalog_MergeFieldsKeepsExisting(t *testing.T) {
	catalog := &labels.Catalog{Fields: map[string]string{"status": "Status"}}
	catalog.MergeFields(map[string]string{"status": "Ignored", "orderby": "Order by", "": "skip"})

	want := map[string]string{"status": "Status", "orderby": "Order by"}
	if diff := cmp.Diff(want, catalog.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalized_TranslatorThenCatalogThenIdentity(t *testing.T) {
	catalog := &labels.Catalog{
		Locale: "en",
		Fields: map[string]string{"isActive": "Active", "skills": "Skills"},
		Values: map[string]string{"true": "Yes"},
	}
	messages := labels.MapTranslator{
		"zh": {
			"filters.fields.isActive": "啟用",
			"filters.values.true":     "是",
		},
	}

	localized := catalog.Localized("zh-TW", messages, nil)

	got := []string{
		localized.LabelOf("isActive"),
		localized.LabelOf("skills"),
		localized.LabelOf("other"),
		localized.ValueLabelOf("true"),
		localized.ValueLabelOf("golang"),
	}
	want := []string{"啟用", "Skills", "other", "是", "golang"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalized_MissingHandler(t *testing.T) {
	var missing []string
	localized := (&labels.Catalog{Locale: "fr"}).Localized("", nil, func(locale, key, fallback string, err error) string {
		if !errors.Is(err, labels.ErrMissingTranslator) {
			t.Fatalf("expected ErrMissingTranslator, got %v", err)
		}
		missing = append(missing, locale+":"+key)
		return "[" + fallback + "]"
	})

	if got := localized.LabelOf("status"); got != "[status]" {
		t.Fatalf("unexpected label %q", got)
	}
	if diff := cmp.Diff([]string{"fr:filters.fields.status"}, missing); diff != "" {
		t.Fatalf("missing keys mismatch (-want +got):\n%s", diff)
	}
}

func TestMapTranslator_Args(t *testing.T) {
	messages := labels.MapTranslator{"en": {"filters.count": "%d filters"}}
	got, err := messages.Translate("en", "filters.count", 3)
	if err != nil || got != "3 filters" {
		t.Fatalf("unexpected translation %q (%v)", got, err)
	}
	if _, err := messages.Translate("en", "missing"); !errors.Is(err, labels.ErrMissingTranslation) {
		t.Fatalf("expected ErrMissingTranslation, got %v", err)
	}
}
