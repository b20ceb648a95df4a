package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-filtertags/pkg/filtertags"
	"github.com/goliatone/go-filtertags/pkg/formstate"
	"github.com/goliatone/go-filtertags/pkg/render"
)

type stubDriver struct {
	selected  []int
	confirm   bool
	selectErr error
	options   []string
	confirms  int
	infos     []string
}

func (s *stubDriver) Confirm(context.Context, ConfirmConfig) (bool, error) {
	s.confirms++
	return s.confirm, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	s.options = cfg.Options
	if s.selectErr != nil {
		return nil, s.selectErr
	}
	return s.selected, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func fixture() (*filtertags.Translator, formstate.Snapshot, render.RenderOptions) {
	schema := formstate.Schema{
		Fields:      []string{"q", "skills", "isActive"},
		ArrayFields: []string{"skills"},
	}
	snapshot := formstate.NewSnapshot(
		formstate.Field{Name: "q", Value: "ada"},
		formstate.Field{Name: "skills", Value: []any{"js", "go"}},
		formstate.Field{Name: "isActive", Value: "1"},
	)
	translator := filtertags.New(filtertags.WithBooleanKeys("isActive"))
	return translator, snapshot, render.RenderOptions{Snapshot: snapshot, Schema: schema, Action: "/users"}
}

func TestRenderer_PrettyText(t *testing.T) {
	translator, snapshot, opts := fixture()
	r := New(WithTheme(Theme{TagPrefix: "- "}), WithDismissLinks(), WithPromptDriver(&stubDriver{}))

	out, err := r.Render(context.Background(), translator.Collect(snapshot), opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := strings.Join([]string{
		"- q: ada  (/users?skills=js&skills=go&isActive=1)",
		"- skills: js  (/users?q=ada&skills=go&isActive=1)",
		"- skills: go  (/users?q=ada&skills=js&isActive=1)",
		"- isActive: true  (/users?q=ada&skills=js&skills=go)",
		"Clear all  (/users)",
		"",
	}, "\n")
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if r.Name() != Name || !strings.HasPrefix(r.ContentType(), "text/plain") {
		t.Fatalf("unexpected renderer metadata %q %q", r.Name(), r.ContentType())
	}
}

func TestRenderer_EmptyState(t *testing.T) {
	r := New(WithTheme(Theme{InfoPrefix: "> "}), WithPromptDriver(&stubDriver{}))
	out, err := r.Render(context.Background(), nil, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := string(out); got != "> No active filters\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRenderer_JSON(t *testing.T) {
	translator, snapshot, opts := fixture()
	r := New(WithOutputFormat(OutputFormatJSON), WithPromptDriver(&stubDriver{}))
	if r.ContentType() != "application/json" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}

	out, err := r.Render(context.Background(), translator.Collect(snapshot), opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var view render.View
	if err := json.Unmarshal(out, &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(view.Tags) != 4 || view.Tags[3].Value != "true" {
		t.Fatalf("unexpected view %+v", view.Tags)
	}
}

func TestRenderer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(WithPromptDriver(&stubDriver{})).Render(ctx, nil, render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPicker_RunDismissesSelection(t *testing.T) {
	translator, snapshot, opts := fixture()
	var submitted []formstate.Snapshot
	form := formstate.NewMemoryStore(snapshot, formstate.WithSubmitHandler(func(_ context.Context, s formstate.Snapshot) error {
		submitted = append(submitted, s)
		return nil
	}))
	driver := &stubDriver{selected: []int{1, 3}, confirm: true}
	picker := NewPicker(WithPromptDriver(driver))

	dismissed, err := picker.Run(context.Background(), translator, form, opts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	wantOptions := []string{"1. q: ada", "2. skills: js", "3. skills: go", "4. isActive: true"}
	if diff := cmp.Diff(wantOptions, driver.options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if len(dismissed) != 2 || dismissed[0].Key != "skills[js]" || dismissed[1].Key != "isActive" {
		t.Fatalf("unexpected dismissed tags %+v", dismissed)
	}
	if len(submitted) != 1 {
		t.Fatalf("expected one submit, got %d", len(submitted))
	}
	want := map[string]any{"q": "ada", "skills": []any{"go"}, "isActive": nil}
	if diff := cmp.Diff(want, submitted[0].Map()); diff != "" {
		t.Fatalf("submitted state mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"2 filter(s) removed"}, driver.infos); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestPicker_DeclinedConfirmLeavesFormAlone(t *testing.T) {
	translator, snapshot, opts := fixture()
	form := formstate.NewMemoryStore(snapshot)
	picker := NewPicker(WithPromptDriver(&stubDriver{selected: []int{0}, confirm: false}))

	dismissed, err := picker.Run(context.Background(), translator, form, opts)
	if err != nil || dismissed != nil {
		t.Fatalf("expected no dismissal, got %v (%v)", dismissed, err)
	}
	if form.Submissions() != 0 {
		t.Fatalf("expected no submit, got %d", form.Submissions())
	}
}

func TestPicker_WithoutConfirm(t *testing.T) {
	translator, snapshot, opts := fixture()
	driver := &stubDriver{selected: []int{0}}
	form := formstate.NewMemoryStore(snapshot)

	if _, err := NewPicker(WithPromptDriver(driver), WithoutConfirm()).Run(context.Background(), translator, form, opts); err != nil {
		t.Fatalf("run: %v", err)
	}
	if driver.confirms != 0 {
		t.Fatalf("expected confirm to be skipped")
	}
	if v, _ := form.Snapshot().Get("q"); v != nil {
		t.Fatalf("expected q cleared, got %v", v)
	}
}

func TestPicker_Errors(t *testing.T) {
	translator, snapshot, opts := fixture()
	picker := NewPicker(WithPromptDriver(&stubDriver{selectErr: ErrAborted}))

	if _, err := picker.Run(context.Background(), translator, formstate.NewMemoryStore(snapshot), opts); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if _, err := picker.Run(context.Background(), translator, nil, opts); !errors.Is(err, filtertags.ErrNoForm) {
		t.Fatalf("expected ErrNoForm, got %v", err)
	}
	empty := formstate.NewMemoryStore(formstate.NewSnapshot(formstate.Field{Name: "q", Value: ""}))
	if _, err := picker.Run(context.Background(), translator, empty, opts); !errors.Is(err, ErrNoTags) {
		t.Fatalf("expected ErrNoTags, got %v", err)
	}
}

func TestDriverHelpers(t *testing.T) {
	options := []string{"a", "b", "c"}
	if diff := cmp.Diff([]int{0, 2}, indicesOf(options, []string{"c", "a"})); diff != "" {
		t.Fatalf("indices mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b"}, defaultsFromIndices(options, []int{1, 7, -1})); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}
