package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-filtertags/pkg/filtertags"
	"github.com/goliatone/go-filtertags/pkg/formstate"
	"github.com/goliatone/go-filtertags/pkg/render"
)

// ErrTagNotFound is returned when a dismiss request names no active tag.
var ErrTagNotFound = errors.New("orchestrator: tag not found")

// DismissResult is the form state after a dismissal.
type DismissResult struct {
	// Dismissed are the tags that were removed, in request order.
	Dismissed []filtertags.Tag
	// Snapshot is the resubmitted form state.
	Snapshot formstate.Snapshot
	// Query encodes Snapshot for the follow-up list request.
	Query string
	// Remaining are the tags derived from Snapshot.
	Remaining []filtertags.Tag
	// Options are the request's render options bound to Snapshot.
	Options render.RenderOptions
}

// Dismiss removes the tags named by keys from the request's form state and
// resubmits once. Every key must name an active tag.
func (o *Orchestrator) Dismiss(ctx context.Context, req Request, keys ...string) (DismissResult, error) {
	if len(keys) == 0 {
		return DismissResult{}, errors.New("orchestrator: at least one tag key is required")
	}
	prepared, err := o.Prepare(ctx, req)
	if err != nil {
		return DismissResult{}, err
	}

	byKey := make(map[string]filtertags.Tag, len(prepared.Tags))
	for _, tag := range prepared.Tags {
		byKey[tag.Key] = tag
	}

	dismissed := make([]filtertags.Tag, 0, len(keys))
	dismissals := make([]filtertags.Dismissal, 0, len(keys))
	for _, key := range keys {
		tag, ok := byKey[key]
		if !ok {
			return DismissResult{}, fmt.Errorf("%w: %q", ErrTagNotFound, key)
		}
		dismissed = append(dismissed, tag)
		dismissals = append(dismissals, tag.Dismissal)
	}

	var submitted formstate.Snapshot
	form := formstate.NewMemoryStore(prepared.Snapshot, formstate.WithSubmitHandler(func(_ context.Context, snapshot formstate.Snapshot) error {
		submitted = snapshot
		return nil
	}))
	if err := filtertags.DismissAll(ctx, form, dismissals...); err != nil {
		return DismissResult{}, fmt.Errorf("orchestrator: dismiss: %w", err)
	}

	opts := prepared.Options
	opts.Snapshot = submitted

	return DismissResult{
		Options:   opts,
		Dismissed: dismissed,
		Snapshot:  submitted,
		Query:     formstate.EncodeQuery(submitted, prepared.Schema),
		Remaining: prepared.Translator.Collect(submitted),
	}, nil
}
