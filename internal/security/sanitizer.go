package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.StrictPolicy()

// SanitizeString removes potentially dangerous characters from
// free-text input.
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	if len(input) > 2000 {
		input = input[:2000]
	}

	return input
}

// SanitizeHTML strips all HTML tags. Applied to user-authored notes
// before they are stored or rendered in admin tooling.
func SanitizeHTML(input string) string {
	return htmlPolicy.Sanitize(input)
}

// SanitizeNotes is the combined treatment for host and admin note
// fields.
func SanitizeNotes(input string) string {
	return SanitizeString(SanitizeHTML(input))
}
