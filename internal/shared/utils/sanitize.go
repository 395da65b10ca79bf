package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// StripTags removes all markup from free-form user input and trims it.
func StripTags(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}
