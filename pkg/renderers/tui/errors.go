package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoTags is returned by the picker when there is nothing to dismiss.
	ErrNoTags = errors.New("tui: no active filters")
)
