package filtertags

import (
	"context"
	"errors"
	"reflect"

	"github.com/goliatone/go-filtertags/pkg/formstate"
)

// ErrNoForm is returned by Dismiss when no form handle is supplied.
var ErrNoForm = errors.New("filtertags: form is nil")

// Dismissal is the command attached to a tag. It names the single field it
// touches and, for primitive-array tags, the element to drop.
type Dismissal struct {
	Field         string `json:"field"`
	Element       any    `json:"element,omitempty"`
	RemoveElement bool   `json:"removeElement,omitempty"`
}

// Clear builds a dismissal that unsets field.
func Clear(field string) Dismissal {
	return Dismissal{Field: field}
}

// RemoveElement builds a dismissal that drops element from the array held by
// field.
func RemoveElement(field string, element any) Dismissal {
	return Dismissal{Field: field, Element: element, RemoveElement: true}
}

// Apply returns the value field should hold after the dismissal. Clearing
// yields nil. Element removal drops every element equal to Element (same type
// and value), keeps the order of the rest and preserves the slice type. A
// current value that is not a sequence is returned unchanged.
func (d Dismissal) Apply(current any) any {
	if !d.RemoveElement {
		return nil
	}
	if current == nil {
		return current
	}

	rv := reflect.ValueOf(current)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return current
	}

	sliceType := rv.Type()
	if rv.Kind() == reflect.Array {
		sliceType = reflect.SliceOf(rv.Type().Elem())
	}
	out := reflect.MakeSlice(sliceType, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item := rv.Index(i)
		if sameElement(item.Interface(), d.Element) {
			continue
		}
		out = reflect.Append(out, item)
	}
	return out.Interface()
}

// ApplyTo returns a copy of snapshot with the dismissal applied. Other fields
// are left untouched.
func (d Dismissal) ApplyTo(snapshot formstate.Snapshot) formstate.Snapshot {
	current, ok := snapshot.Get(d.Field)
	if !ok {
		return snapshot
	}
	return snapshot.With(d.Field, d.Apply(current))
}

// Dismiss applies a tag's dismissal to the live form and asks the form to
// resubmit. The field's current value is read from a fresh snapshot so that
// consecutive dismissals on the same array compose. The form decides what a
// write to an unknown field means.
func Dismiss(ctx context.Context, form Form, d Dismissal) error {
	if form == nil {
		return ErrNoForm
	}
	current, _ := form.Snapshot().Get(d.Field)
	form.SetField(d.Field, d.Apply(current))
	return form.Submit(ctx)
}

// DismissAll applies several dismissals in order and submits once. Each
// dismissal reads the value left by the previous one.
func DismissAll(ctx context.Context, form Form, dismissals ...Dismissal) error {
	if form == nil {
		return ErrNoForm
	}
	if len(dismissals) == 0 {
		return nil
	}
	for _, d := range dismissals {
		current, _ := form.Snapshot().Get(d.Field)
		form.SetField(d.Field, d.Apply(current))
	}
	return form.Submit(ctx)
}

func sameElement(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
