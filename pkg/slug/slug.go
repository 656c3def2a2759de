package slug

import (
	"regexp"
	"strings"
)

var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly handle from the given product name.
//
// Examples:
//   - "NEON DRIP TEE" → "neon-drip-tee"
//   - "THROW-UP SHORTS" → "throw-up-shorts"
func Generate(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))

	// Replace any non-alphanumeric characters with hyphens
	slug = slugRegexp.ReplaceAllString(slug, "-")

	// Trim leading and trailing hyphens
	slug = strings.Trim(slug, "-")

	return slug
}
