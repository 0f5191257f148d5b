// Package category derives a category slug from a file's path.
package category

import (
	"regexp"
	"strings"
)

// slugPattern restricts slugs to word characters and hyphens.
var slugPattern = regexp.MustCompile(`^[\w-]+$`)

// Resolve derives a category slug from a path-like string using the parent
// directory name. Both "/" and "\" separators are accepted. The candidate
// is the second-to-last path segment; it must match slugPattern or the
// result is empty. Accepted slugs are lowercased.
//
// Resolve is pure and total: any input that does not yield a valid slug
// (empty path, bare filename, non-matching directory name) returns "".
func Resolve(path string) string {
	normalized := strings.ReplaceAll(path, "\\", "/")
	segments := strings.Split(normalized, "/")
	if len(segments) < 2 {
		return ""
	}

	candidate := segments[len(segments)-2]
	if !slugPattern.MatchString(candidate) {
		return ""
	}

	return strings.ToLower(candidate)
}
