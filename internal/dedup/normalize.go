package dedup

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeField collapses an artist/album/title string down to a
// comparison-stable form: Unicode NFC, lowercase, trimmed, whitespace
// collapsed. It does not strip punctuation or version suffixes — those
// live in the per-field helpers below, since title comparison needs them
// and artist/album comparison does not.
func normalizeField(s string) string {
	s = norm.NFC.String(s)
	s = strings.ToLower(s)
	s = strings.TrimSpace(s)
	return collapseWhitespace(s)
}

var whitespaceCollapseRe = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceCollapseRe.ReplaceAllString(s, " "))
}

// normalizeArtist applies field normalization plus the "Artist, The" ->
// "the artist" rewrite so "Beatles, The" and "The Beatles" compare equal.
func normalizeArtist(artist string) string {
	n := normalizeField(artist)
	if strings.HasSuffix(n, ", the") {
		n = "the " + strings.TrimSuffix(n, ", the")
	}
	return n
}

var versionSuffixRe = regexp.MustCompile(`(?i)\s*[\(\[][^)\]]*?(remix|live|acoustic|demo|instrumental|radio|edit|extended|version|mix|remaster|deluxe|bonus|anniversary|edition|unplugged|session|concert|recording|alternate|original|single|album|explicit|clean|vocal|karaoke|cover)[^)\]]*?[\)\]]`)

// normalizeTitle strips bracketed version markers before comparing, so
// "Hotel California" and "Hotel California (Remastered 2013)" can still
// match on title; DetectVersionType below is what keeps the two from being
// silently treated as the identical recording.
func normalizeTitle(title string) string {
	n := normalizeField(title)
	n = versionSuffixRe.ReplaceAllString(n, "")
	return collapseWhitespace(n)
}

// DetectVersionType classifies a title's recording variant. Precedence:
// live > acoustic > remix > demo > instrumental > studio (the default).
func DetectVersionType(title string) string {
	if title == "" {
		return "studio"
	}
	lower := strings.ToLower(title)

	for _, kw := range []string{"live", "concert", "session"} {
		if strings.Contains(lower, kw) {
			return "live"
		}
	}
	for _, kw := range []string{"acoustic", "unplugged"} {
		if strings.Contains(lower, kw) {
			return "acoustic"
		}
	}
	if !strings.Contains(lower, "remaster") && !strings.Contains(lower, "edition") {
		for _, kw := range []string{"remix", " mix", "edit", "dub", "bootleg", "mashup", "radio", "club", "extended"} {
			if strings.Contains(lower, kw) {
				return "remix"
			}
		}
	}
	for _, kw := range []string{"demo", "rough", "alternate", "outtake", "unreleased"} {
		if strings.Contains(lower, kw) {
			return "demo"
		}
	}
	for _, kw := range []string{"instrumental", "karaoke", "backing track"} {
		if strings.Contains(lower, kw) {
			return "instrumental"
		}
	}
	return "studio"
}
