// Package render turns filter tags into presentable output. Renderers are
// looked up by name from a Registry and receive a RenderOptions value that
// carries the form state the tags came from, so each tag can link to the
// query that results from dismissing it.
package render
