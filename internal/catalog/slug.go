package catalog

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var slugSanitizer = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name and joins its alphanumeric runs with single
// hyphens. The result may be empty for names without ASCII alphanumerics.
func Slugify(name string) string {
	value := slugSanitizer.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(value, "-")
}

// SlugFor returns Slugify(name), or a random "item-xxxxxxxx" slug when the
// name has nothing to slugify.
func SlugFor(name string) string {
	if slug := Slugify(name); slug != "" {
		return slug
	}
	return "item-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// newID returns a fresh record identifier
func newID() string {
	return uuid.NewString()
}
