package filtertags_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-filtertags/pkg/filtertags"
	"github.com/goliatone/go-filtertags/pkg/formstate"
)

// recordingForm captures writes so tests can assert that siblings are never
// touched.
type recordingForm struct {
	snapshot  formstate.Snapshot
	writes    []formstate.Field
	submits   int
	submitErr error
}

func (f *recordingForm) Snapshot() formstate.Snapshot { return f.snapshot }

func (f *recordingForm) SetField(name string, value any) {
	f.writes = append(f.writes, formstate.Field{Name: name, Value: value})
	f.snapshot = f.snapshot.With(name, value)
}

func (f *recordingForm) Submit(context.Context) error {
	f.submits++
	return f.submitErr
}

func TestDismiss_RemovesSingleElement(t *testing.T) {
	form := &recordingForm{snapshot: formstate.NewSnapshot(
		formstate.Field{Name: "q", Value: "shoes"},
		formstate.Field{Name: "tags", Value: []string{"a", "b", "c"}},
	)}

	tags := filtertags.New().Translate(form)
	var target filtertags.Tag
	for _, tag := range tags {
		if tag.Key == "tags[b]" {
			target = tag
		}
	}
	if target.Key == "" {
		t.Fatalf("expected tag for element b in %#v", tags)
	}

	if err := filtertags.Dismiss(context.Background(), form, target.Dismissal); err != nil {
		t.Fatalf("dismiss: %v", err)
	}

	want := []formstate.Field{{Name: "tags", Value: []string{"a", "c"}}}
	if diff := cmp.Diff(want, form.writes); diff != "" {
		t.Fatalf("writes mismatch (-want +got):\n%s", diff)
	}
	if form.submits != 1 {
		t.Fatalf("expected one submit, got %d", form.submits)
	}
}

func TestDismiss_ClearsScalarField(t *testing.T) {
	form := &recordingForm{snapshot: formstate.NewSnapshot(
		formstate.Field{Name: "q", Value: "shoes"},
		formstate.Field{Name: "enabled", Value: true},
	)}

	if err := filtertags.Dismiss(context.Background(), form, filtertags.Clear("enabled")); err != nil {
		t.Fatalf("dismiss: %v", err)
	}

	want := []formstate.Field{{Name: "enabled", Value: nil}}
	if diff := cmp.Diff(want, form.writes); diff != "" {
		t.Fatalf("writes mismatch (-want +got):\n%s", diff)
	}
	if q, _ := form.snapshot.Get("q"); q != "shoes" {
		t.Fatalf("sibling field mutated: %v", q)
	}
	if got := filtertags.New().Translate(form); len(got) != 1 || got[0].Field != "q" {
		t.Fatalf("expected only the sibling tag to remain, got %#v", got)
	}
}

func TestDismiss_ConsecutiveElementsCompose(t *testing.T) {
	store := formstate.NewMemoryStore(formstate.NewSnapshot(
		formstate.Field{Name: "skills", Value: []any{"js", "go", "php"}},
	))

	tags := filtertags.New().Translate(store)
	ctx := context.Background()
	if err := filtertags.Dismiss(ctx, store, tags[0].Dismissal); err != nil {
		t.Fatalf("dismiss first: %v", err)
	}
	if err := filtertags.Dismiss(ctx, store, tags[2].Dismissal); err != nil {
		t.Fatalf("dismiss third: %v", err)
	}

	value, _ := store.Snapshot().Get("skills")
	if diff := cmp.Diff([]any{"go"}, value); diff != "" {
		t.Fatalf("skills mismatch (-want +got):\n%s", diff)
	}
	if store.Submissions() != 2 {
		t.Fatalf("expected two submissions, got %d", store.Submissions())
	}
}

func TestDismiss_PropagatesSubmitError(t *testing.T) {
	boom := errors.New("boom")
	form := &recordingForm{
		snapshot:  formstate.NewSnapshot(formstate.Field{Name: "q", Value: "x"}),
		submitErr: boom,
	}
	if err := filtertags.Dismiss(context.Background(), form, filtertags.Clear("q")); !errors.Is(err, boom) {
		t.Fatalf("expected submit error, got %v", err)
	}
	if err := filtertags.Dismiss(context.Background(), nil, filtertags.Clear("q")); !errors.Is(err, filtertags.ErrNoForm) {
		t.Fatalf("expected ErrNoForm, got %v", err)
	}
}

func TestDismissal_Apply(t *testing.T) {
	cases := []struct {
		name      string
		dismissal filtertags.Dismissal
		current   any
		want      any
	}{
		{name: "clear", dismissal: filtertags.Clear("f"), current: "x", want: nil},
		{name: "remove all equal", dismissal: filtertags.RemoveElement("f", "b"), current: []any{"b", "a", "b"}, want: []any{"a"}},
		{name: "strict types", dismissal: filtertags.RemoveElement("f", "1"), current: []any{1, "1"}, want: []any{1}},
		{name: "typed slice", dismissal: filtertags.RemoveElement("f", 2), current: []int{1, 2, 3}, want: []int{1, 3}},
		{name: "array becomes slice", dismissal: filtertags.RemoveElement("f", "a"), current: [2]string{"a", "b"}, want: []string{"b"}},
		{name: "missing element", dismissal: filtertags.RemoveElement("f", "z"), current: []string{"a"}, want: []string{"a"}},
		{name: "not a sequence", dismissal: filtertags.RemoveElement("f", "a"), current: "a", want: "a"},
		{name: "nil current", dismissal: filtertags.RemoveElement("f", "a"), current: nil, want: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.dismissal.Apply(tc.current)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("apply mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDismissal_ApplyToLeavesSiblings(t *testing.T) {
	snapshot := formstate.NewSnapshot(
		formstate.Field{Name: "a", Value: []string{"1", "2"}},
		formstate.Field{Name: "b", Value: "keep"},
	)

	next := filtertags.RemoveElement("a", "1").ApplyTo(snapshot)

	if diff := cmp.Diff(map[string]any{"a": []string{"2"}, "b": "keep"}, next.Map()); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1", "2"}, snapshot.Map()["a"]); diff != "" {
		t.Fatalf("original snapshot mutated (-want +got):\n%s", diff)
	}
	if unchanged := filtertags.Clear("missing").ApplyTo(snapshot); unchanged.Len() != 2 {
		t.Fatalf("expected unknown field dismissal to be ignored")
	}
}

func TestDismissAll_SubmitsOnce(t *testing.T) {
	form := &recordingForm{snapshot: formstate.NewSnapshot(
		formstate.Field{Name: "skills", Value: []any{"js", "go", "php"}},
		formstate.Field{Name: "q", Value: "shoes"},
	)}

	err := filtertags.DismissAll(context.Background(), form,
		filtertags.RemoveElement("skills", "js"),
		filtertags.RemoveElement("skills", "php"),
		filtertags.Clear("q"),
	)
	if err != nil {
		t.Fatalf("dismiss all: %v", err)
	}

	want := map[string]any{"skills": []any{"go"}, "q": nil}
	if diff := cmp.Diff(want, form.snapshot.Map()); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if form.submits != 1 {
		t.Fatalf("expected one submit, got %d", form.submits)
	}

	if err := filtertags.DismissAll(context.Background(), form); err != nil || form.submits != 1 {
		t.Fatalf("empty dismiss list should be a no-op (err=%v, submits=%d)", err, form.submits)
	}
	if err := filtertags.DismissAll(context.Background(), nil, filtertags.Clear("q")); !errors.Is(err, filtertags.ErrNoForm) {
		t.Fatalf("expected ErrNoForm, got %v", err)
	}
}
