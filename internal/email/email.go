// Package email extracts contact addresses from free-text biographies.
package email

import (
	"regexp"
	"strings"
)

// pattern matches common address shapes: dotted/hyphenated local parts,
// subdomains, TLDs of two or more letters. Not RFC-complete on purpose.
var pattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// imageSuffixes mark matches that are really asset URLs embedded in a bio
// (e.g. "avatar@2x.png"), the dominant false positive in scraped text.
var imageSuffixes = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

// Extract returns the first plausible email address in text, or "" when
// none is found. When the first match ends in an image suffix the whole
// text is rejected rather than scanned for a later candidate; downstream
// filtering was authored against that single-match behavior.
func Extract(text string) string {
	if text == "" {
		return ""
	}

	match := pattern.FindString(text)
	if match == "" {
		return ""
	}

	lower := strings.ToLower(match)
	for _, suffix := range imageSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return ""
		}
	}

	return match
}
