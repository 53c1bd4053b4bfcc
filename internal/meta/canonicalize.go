package meta

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// allCapsArtists lists artists whose canonical form is all-caps or
// otherwise not derivable by title-casing, the same fixed exception list
// the teacher's normalizer carries.
var allCapsArtists = map[string]string{
	"ac/dc":    "AC/DC",
	"acdc":     "AC/DC",
	"ac_dc":    "AC/DC",
	"abba":     "ABBA",
	"mgmt":     "MGMT",
	"mstrkrft": "MSTRKRFT",
	"unkle":    "UNKLE",
}

// canonicalizeArtistName applies consistent capitalization so "&me" and
// "&ME" converge to the same destination-path component. Used by
// cleanArtistName in patterns.go as part of CleanMetadata.
func canonicalizeArtistName(artist string) string {
	if artist == "" {
		return ""
	}

	artist = norm.NFC.String(artist)
	artist = strings.TrimSpace(artist)

	if canonical, ok := allCapsArtists[strings.ToLower(artist)]; ok {
		return canonical
	}

	if strings.HasPrefix(artist, "&") || strings.HasPrefix(artist, "_&") {
		trimmed := strings.TrimPrefix(strings.TrimPrefix(artist, "_"), "&")
		if len(trimmed) <= 3 {
			return "&" + strings.ToUpper(trimmed)
		}
		return "&" + toTitleCase(trimmed)
	}

	return toTitleCase(artist)
}

var titleCaseLowercaseWords = map[string]bool{
	"a": true, "an": true, "the": true,
	"and": true, "or": true, "but": true,
	"of": true, "in": true, "on": true, "at": true, "to": true, "for": true,
	"feat": true, "feat.": true, "ft": true, "ft.": true,
	"vs": true, "vs.": true,
}

// toTitleCase title-cases a string, keeping small words (the, of, feat...)
// lowercase except in first position.
func toTitleCase(s string) string {
	if s == "" {
		return ""
	}

	words := strings.Fields(s)
	result := make([]string, len(words))

	for i, word := range words {
		lowerWord := strings.ToLower(word)
		switch {
		case i == 0:
			result[i] = capitalizeWord(word)
		case titleCaseLowercaseWords[lowerWord]:
			result[i] = lowerWord
		default:
			result[i] = capitalizeWord(word)
		}
	}

	return strings.Join(result, " ")
}

// capitalizeWord capitalizes a word's first letter, title-casing an
// all-upper or all-lower word but preserving intentional mixed case (e.g.
// "McCartney").
func capitalizeWord(word string) string {
	if word == "" {
		return ""
	}

	runes := []rune(word)
	hasLower, hasUpper := false, false
	for _, r := range runes {
		if unicode.IsLetter(r) {
			if unicode.IsLower(r) {
				hasLower = true
			}
			if unicode.IsUpper(r) {
				hasUpper = true
			}
		}
	}

	if (hasUpper && !hasLower) || (hasLower && !hasUpper) {
		runes[0] = unicode.ToUpper(runes[0])
		for i := 1; i < len(runes); i++ {
			runes[i] = unicode.ToLower(runes[i])
		}
	} else {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return string(runes)
}
