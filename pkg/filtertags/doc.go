// Package filtertags derives closable filter tags from the current values of a
// list-filter form.
//
// Each field of a formstate.Snapshot is classified once by Classify into one
// of: empty (no tag), date range (one tag, dates joined with " ~ "), primitive
// array (one tag per element), boolean, or scalar. Arrays that mix element
// types are classified as malformed and silently omitted. Fields declared as
// boolean keys hold "0"/"1" strings and are shown through the value labeler as
// "true"/"false".
//
// Every Tag carries a Dismissal command instead of a callback. Dismiss applies
// it to the live form (clearing the field, or removing one array element) and
// resubmits the form:
//
//	tr := filtertags.New(filtertags.WithBooleanKeys("isActive"))
//	for tag := range tr.Tags(store.Snapshot()) {
//		fmt.Printf("%s: %s\n", tag.Label, tag.Value)
//	}
//	_ = filtertags.Dismiss(ctx, store, tags[0].Dismissal)
package filtertags
