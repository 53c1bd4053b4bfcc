package meta

import (
	"regexp"
	"strings"

	"github.com/arvidsson/crateorganizer/internal/model"
)

var (
	catalogPattern = regexp.MustCompile(`[-\s]*[\(\[]([A-Z0-9]{3,15})[\)\]][-\s]*`)
	webAttribRe    = regexp.MustCompile(`\[(?:www\.|by\s|http)[^\]]+\]`)
	bootlegRe      = regexp.MustCompile(`(?i)\s*[-_\(]\s*(bootleg|promo|promotion)\s*[-_\)]?\s*`)
	promoRe        = regexp.MustCompile(`(?i)only\s+for\s+promotion`)
	whitespaceRe   = regexp.MustCompile(`\s+`)

	formatMarkers = []string{
		"-WEB", "_WEB", " WEB", "(WEB)", "[WEB]",
		"-VINYL", "_VINYL", " VINYL", "(VINYL)", "[VINYL]",
		"(CD)", "[CD]", " CD",
		"-EP", "_EP",
	}
)

// CleanMetadata strips the release-format noise ("-WEB", catalog numbers in
// brackets, website attribution) that accumulates in loosely-tagged
// libraries, and flags compilations the tags themselves don't mark.
func CleanMetadata(m model.Metadata, srcPath string) model.Metadata {
	b := seedBuilder(m)

	if album, ok := m.Album.Get(); ok {
		if cleaned := cleanAlbumName(album); cleaned != "" {
			b.Album(cleaned)
		}
	}
	if title, ok := m.Title.Get(); ok {
		b.Title(strings.TrimSpace(title))
	}

	if comp, ok := m.Compilation.Get(); !ok || !comp {
		if detectCompilation(m, srcPath) {
			b.Compilation(true)
		}
	}

	out := b.Build()

	if artist, ok := m.Artist.Get(); ok {
		if cleaned := cleanArtistName(artist); cleaned != "" {
			out.Artist = model.Some(cleaned)
		} else {
			out.Artist = model.None[string]()
		}
	}

	return out
}

func cleanAlbumName(album string) string {
	original := album

	for _, marker := range formatMarkers {
		if strings.HasSuffix(album, marker) {
			album = strings.TrimSpace(strings.TrimSuffix(album, marker))
		}
	}

	album = catalogPattern.ReplaceAllString(album, " ")
	album = webAttribRe.ReplaceAllString(album, "")
	album = bootlegRe.ReplaceAllString(album, " ")
	album = promoRe.ReplaceAllString(album, "")

	album = collapseWhitespace(album)
	album = strings.ReplaceAll(album, "--", "-")
	album = strings.ReplaceAll(album, "__", "_")
	album = strings.Trim(album, " -_")

	if album == "" || isURLBased(album) {
		return original
	}
	return album
}

func cleanArtistName(artist string) string {
	if strings.EqualFold(artist, "unknown artist") {
		return ""
	}
	return canonicalizeArtistName(strings.TrimSpace(artist))
}

func detectCompilation(m model.Metadata, srcPath string) bool {
	pathLower := strings.ToLower(srcPath)
	markers := []string{
		"various artists", "variousartists", "various_artists",
		"compilation", "mixed by", "compiled by", "compiled & mixed", "_singles",
	}
	for _, marker := range markers {
		if strings.Contains(pathLower, marker) {
			return true
		}
	}
	if album, ok := m.Album.Get(); ok {
		albumLower := strings.ToLower(album)
		if strings.Contains(albumLower, "various") ||
			strings.Contains(albumLower, "compilation") ||
			strings.Contains(albumLower, "mixed by") {
			return true
		}
	}
	return false
}

func isURLBased(s string) bool {
	lowerS := strings.ToLower(s)
	for _, marker := range []string{"http", "_soundcloud_", "_facebook_", "_myspace_", "www_", "blogspot", "djsoundtop"} {
		if strings.Contains(lowerS, marker) {
			return true
		}
	}
	return false
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
