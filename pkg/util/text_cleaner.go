package util

import (
	"html"
	"regexp"
	"strings"
)

var (
	// htmlTagPattern matches markup like <span>, </b>, <wbr/>.
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
	// multiSpacePattern matches runs of whitespace.
	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// CleanLabel strips markup remnants and escape sequences from a provider label
// (country name, region, currency name) and collapses whitespace.
func CleanLabel(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, `<\/`, `</`)
	s = strings.ReplaceAll(s, `\/`, `/`)
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = multiSpacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NeedsCleanup reports whether a label carries anything CleanLabel would remove.
func NeedsCleanup(s string) bool {
	return CleanLabel(s) != s
}

// NormalizeQuery lower-cases a search term and collapses its whitespace.
func NormalizeQuery(q string) string {
	return strings.ToLower(multiSpacePattern.ReplaceAllString(strings.TrimSpace(q), " "))
}
