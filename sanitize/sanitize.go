// Package sanitize normalizes model output into values YouTube and the
// filesystem will actually accept.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

const (
	maxTags        = 15
	maxTagLength   = 30
	minTagLength   = 3
	maxFilenameLen = 50
)

var (
	nonTagCharsRe  = regexp.MustCompile(`[^a-zA-Z0-9\s\-]`)
	nonFileCharsRe = regexp.MustCompile(`[^\w\s\-]`)
	wsRunRe        = regexp.MustCompile(`\s+`)
)

// Keywords cleans a raw keyword list into a YouTube-compliant tag set:
// charset restricted to letters/digits/spaces/hyphens, 3-30 chars each,
// case-insensitive dedup, at most 15 tags. Input order is preserved.
func Keywords(keywords []string) []string {
	cleaned := make([]string, 0, maxTags)
	for _, keyword := range keywords {
		k := strings.TrimSpace(keyword)
		if k == "" {
			continue
		}
		k = nonTagCharsRe.ReplaceAllString(k, "")
		k = wsRunRe.ReplaceAllString(k, " ")
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if len(k) > maxTagLength {
			k = strings.TrimSpace(k[:maxTagLength])
		}
		if len(k) < minTagLength {
			continue
		}
		dup := k
		if lo.ContainsBy(cleaned, func(c string) bool { return strings.EqualFold(c, dup) }) {
			continue
		}
		cleaned = append(cleaned, k)
		if len(cleaned) >= maxTags {
			break
		}
	}
	return cleaned
}

// Filename converts an arbitrary label into a safe file name: punctuation
// stripped, whitespace runs replaced with a single underscore, capped at 50
// characters. All-punctuation input yields an empty string.
func Filename(label string) string {
	s := nonFileCharsRe.ReplaceAllString(label, "")
	s = wsRunRe.ReplaceAllString(s, "_")
	if len(s) > maxFilenameLen {
		s = s[:maxFilenameLen]
	}
	return s
}
