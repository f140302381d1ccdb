// Package thai provides normalization helpers for Thai place-name text.
//
// User keywords and the crawled location strings differ in whitespace,
// punctuation and administrative prefixes ("ต." vs "ตำบล" and so on), so all
// matching happens over the normalized forms produced here. The normalized
// output is a comparison key only and is never shown to a user.
package thai

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// adminPrefixes are the administrative markers stripped by NormalizePlace.
// Within each administrative level the full form precedes the abbreviation
// so a short prefix never matches inside the longer one.
var adminPrefixes = []string{
	"ตำบล", "ต.",
	"อำเภอ", "อ.",
	"จังหวัด", "จ.",
	"แขวง",
	"เขต",
}

// tambonMarker matches the first sub-district marker followed immediately by
// a maximal run of non-whitespace characters.
var tambonMarker = regexp.MustCompile(`(?:ตำบล|ต\.)(\S+)`)

// NormalizeWhitespace trims s and collapses every internal whitespace run to
// a single space. Idempotent.
func NormalizeWhitespace(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// NormalizePlace reduces a place name to a comparison key: whitespace
// normalized, spaces removed, administrative prefixes stripped. Idempotent.
func NormalizePlace(s string) string {
	s = NormalizeWhitespace(s)
	s = strings.ReplaceAll(s, " ", "")
	for _, p := range adminPrefixes {
		s = strings.ReplaceAll(s, p, "")
	}
	return s
}

// ExtractTambon pulls the sub-district name out of a location string like
// "ต.คลองโคน อ.เมือง จ.สมุทรสงคราม". Only the first marker is used; when no
// marker is present it returns "".
func ExtractTambon(location string) string {
	m := tambonMarker.FindStringSubmatch(NormalizeWhitespace(location))
	if m == nil {
		return ""
	}
	return m[1]
}
