package tui

import (
	"context"
	"fmt"

	"github.com/goliatone/go-filtertags/pkg/filtertags"
	"github.com/goliatone/go-filtertags/pkg/render"
)

// Picker lets a user choose tags to dismiss from a terminal.
type Picker struct {
	settings settings
}

// NewPicker constructs a picker. Without WithPromptDriver it prompts through
// survey.
func NewPicker(options ...Option) *Picker {
	return &Picker{settings: newSettings(options)}
}

// Choose prompts for the tags to dismiss and returns them in display order.
// A declined confirmation returns no tags and no error.
func (p *Picker) Choose(ctx context.Context, tags []filtertags.Tag, options render.RenderOptions) ([]filtertags.Tag, error) {
	tags = options.Subset.Apply(tags)
	if len(tags) == 0 {
		return nil, ErrNoTags
	}
	view := render.BuildView(tags, options)

	labels := make([]string, len(view.Tags))
	for i, tag := range view.Tags {
		labels[i] = fmt.Sprintf("%d. %s", i+1, tag.Text)
	}

	picked, err := p.settings.driver.MultiSelect(ctx, SelectConfig{
		Message:  view.RemoveLabel,
		Options:  labels,
		PageSize: p.settings.pageSize,
	})
	if err != nil {
		return nil, err
	}
	if len(picked) == 0 {
		return nil, nil
	}

	if p.settings.confirm {
		ok, err := p.settings.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("%s (%d)?", view.RemoveLabel, len(picked)),
			Default: true,
		})
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
	}

	chosen := make([]filtertags.Tag, 0, len(picked))
	for _, idx := range picked {
		if idx >= 0 && idx < len(tags) {
			chosen = append(chosen, tags[idx])
		}
	}
	return chosen, nil
}

// Run derives tags from form, lets the user choose some, and dismisses them
// with a single resubmission. It returns the dismissed tags.
func (p *Picker) Run(ctx context.Context, translator *filtertags.Translator, form filtertags.Form, options render.RenderOptions) ([]filtertags.Tag, error) {
	if form == nil {
		return nil, filtertags.ErrNoForm
	}
	options.Snapshot = form.Snapshot()
	chosen, err := p.Choose(ctx, translator.Collect(options.Snapshot), options)
	if err != nil || len(chosen) == 0 {
		return nil, err
	}

	dismissals := make([]filtertags.Dismissal, len(chosen))
	for i, tag := range chosen {
		dismissals[i] = tag.Dismissal
	}
	if err := filtertags.DismissAll(ctx, form, dismissals...); err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("%s%d filter(s) removed", p.settings.theme.InfoPrefix, len(chosen))
	if err := p.settings.driver.Info(ctx, msg); err != nil {
		return chosen, err
	}
	return chosen, nil
}
