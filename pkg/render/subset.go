package render

import (
	"strings"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-filtertags/pkg/filtertags"
)

// TagSubset narrows the tags a renderer shows. Fields and Kinds are allow
// lists matched case-insensitively; Exclude drops fields outright. An empty
// subset keeps every tag.
type TagSubset struct {
	Fields  []string
	Kinds   []string
	Exclude []string
}

// ParseTagSubset builds a subset from comma separated (or JSON array) token
// lists as they arrive from flags and query strings.
func ParseTagSubset(fields, kinds, exclude string) TagSubset {
	return TagSubset{
		Fields:  ParseTokenList(fields),
		Kinds:   ParseTokenList(kinds),
		Exclude: ParseTokenList(exclude),
	}
}

// Empty reports whether the subset keeps every tag.
func (s TagSubset) Empty() bool {
	return len(normaliseTokens(s.Fields)) == 0 &&
		len(normaliseTokens(s.Kinds)) == 0 &&
		len(normaliseTokens(s.Exclude)) == 0
}

// Apply returns the tags matching the subset, keeping their order.
func (s TagSubset) Apply(tags []filtertags.Tag) []filtertags.Tag {
	fields := normaliseTokens(s.Fields)
	kinds := normaliseTokens(s.Kinds)
	exclude := normaliseTokens(s.Exclude)
	if len(fields) == 0 && len(kinds) == 0 && len(exclude) == 0 {
		return tags
	}

	out := make([]filtertags.Tag, 0, len(tags))
	for _, tag := range tags {
		field := normaliseToken(tag.Field)
		if _, skip := exclude[field]; skip {
			continue
		}
		if len(fields) > 0 {
			if _, ok := fields[field]; !ok {
				continue
			}
		}
		if len(kinds) > 0 {
			if _, ok := kinds[tag.Kind.String()]; !ok {
				continue
			}
		}
		out = append(out, tag)
	}
	return out
}

// ParseTokenList splits a comma separated list or a JSON array of strings
// into lower-cased, de-duplicated tokens.
func ParseTokenList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var parsed []any
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			tokens := make([]string, 0, len(parsed))
			for _, entry := range parsed {
				if s, ok := entry.(string); ok {
					if token := normaliseToken(s); token != "" {
						tokens = append(tokens, token)
					}
				}
			}
			return dedupe(tokens)
		}
	}

	parts := strings.Split(raw, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		if token := normaliseToken(part); token != "" {
			tokens = append(tokens, token)
		}
	}
	return dedupe(tokens)
}

func normaliseTokens(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	result := make(map[string]struct{}, len(values))
	for _, value := range values {
		if token := normaliseToken(value); token != "" {
			result[token] = struct{}{}
		}
	}
	return result
}

func normaliseToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
