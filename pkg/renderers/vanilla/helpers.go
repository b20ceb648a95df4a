package vanilla

import "strings"

// sanitizeClassList drops the renderer's own "ft-" classes and anything that
// could break out of the class attribute.
func sanitizeClassList(value string) string {
	tokens := strings.Fields(value)
	keep := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if strings.HasPrefix(token, "ft-") || strings.ContainsAny(token, `"'<>&=`) {
			continue
		}
		keep = append(keep, token)
	}
	return strings.Join(keep, " ")
}
