// Package openapi derives filter-form hints from an OpenAPI 3 list
// operation. The query parameters of the operation become the form fields:
// their order, labels, and which of them hold booleans, dates, or multiple
// values. Documents load from files, fs.FS entries, or URLs; parsing uses
// kin-openapi.
package openapi
