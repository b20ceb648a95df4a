// Package watch reloads label catalogs and message files when they change on
// disk. Rapid events are debounced into a single reload.
package watch
