// Package labels supplies the display text for filter tags: field labels,
// value labels, and the set of fields whose "0"/"1" values stand in for
// booleans. Catalogs load from JSON or YAML files and can be layered with a
// Translator so the same catalog serves several locales.
package labels
