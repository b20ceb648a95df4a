// Package formstate models the host form that filter tags are derived from:
// an ordered snapshot of field values, decoders that build snapshots from
// query strings, JSON, YAML, or typed structs while preserving field order,
// and an in-memory store exposing the read/write/submit handle the tag
// translator consumes. Field order is significant throughout the package
// because it drives the left-to-right layout of the rendered tags.
package formstate
