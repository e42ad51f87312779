package content

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Sanitize strips every HTML element from input and returns plain text.
// The result is unescaped again because templates escape on output.
func Sanitize(input string) string {
	return html.UnescapeString(policy.Sanitize(input))
}
