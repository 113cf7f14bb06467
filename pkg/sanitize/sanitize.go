package sanitize

import (
	"html"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// ContainsMarkup reports whether raw holds HTML elements. Entities
// bluemonday escapes on the way out are decoded before comparing, so
// "Smith & Sons" or "a < b" alone do not count as markup.
func ContainsMarkup(raw string) bool {
	if raw == "" {
		return false
	}
	return html.UnescapeString(strictPolicy().Sanitize(raw)) != raw
}

// MarkupFields returns the keys of fields whose value contains markup, in
// the order given.
func MarkupFields(order []string, values map[string]string) []string {
	var out []string
	for _, name := range order {
		if ContainsMarkup(values[name]) {
			out = append(out, name)
		}
	}
	return out
}

func strictPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}
