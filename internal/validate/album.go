package validate

import (
	"fmt"
	"strconv"

	"github.com/arvidsson/crateorganizer/internal/model"
)

type albumKey struct {
	artist, album string
}

// checkAlbumCompleteness groups items by (artist, album) — both fields
// present, per spec §4.6 — and reports which track numbers are missing
// against the expected total. One IncompleteAlbum issue is emitted per
// album (see DESIGN.md Open Question 2), not one per missing track, since a
// missing track has no AudioFile of its own to attach a path-keyed issue
// to; the issue's path instead names the album's first observed member.
func checkAlbumCompleteness(items []model.AudioFile) ([]model.AlbumCompleteness, []model.ValidationIssue) {
	type bucket struct {
		files          []model.AudioFile
		declaredTotal  int
		maxObservedTrk int
		present        map[int]bool
	}
	buckets := make(map[albumKey]*bucket)
	var order []albumKey

	for _, f := range items {
		artist, aok := f.Metadata.Artist.Get()
		album, bok := f.Metadata.Album.Get()
		if !aok || !bok {
			continue
		}
		key := albumKey{artist: artist, album: album}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{present: make(map[int]bool)}
			buckets[key] = b
			order = append(order, key)
		}
		b.files = append(b.files, f)

		if track, ok := f.Metadata.Track.Get(); ok {
			b.present[track] = true
			if track > b.maxObservedTrk {
				b.maxObservedTrk = track
			}
		}
		if total, ok := f.Metadata.TrackTotal.Get(); ok && total > b.declaredTotal {
			b.declaredTotal = total
		}
	}

	var completeness []model.AlbumCompleteness
	var issues []model.ValidationIssue

	for _, key := range order {
		b := buckets[key]
		expected := b.declaredTotal
		if expected == 0 {
			expected = b.maxObservedTrk
		}

		var missing []int
		for n := 1; n <= expected; n++ {
			if !b.present[n] {
				missing = append(missing, n)
			}
		}

		ac := model.AlbumCompleteness{
			Artist:        key.artist,
			Album:         key.album,
			ExpectedTotal: expected,
			Present:       b.present,
			Missing:       missing,
			Complete:      len(missing) == 0 && len(b.present) > 0,
		}
		completeness = append(completeness, ac)

		if !ac.Complete && len(missing) > 0 {
			issues = append(issues, issue(model.IssueIncompleteAlbum, model.SeverityWarning, b.files[0].Path,
				fmt.Sprintf("album %q by %q is missing track(s) %s of %d", key.album, key.artist, formatMissing(missing), expected),
				"locate the missing tracks or re-rip the album"))
		}

		issues = append(issues, checkAlbumYearConsistency(b.files)...)
	}

	return completeness, issues
}

// checkAlbumYearConsistency flags any member whose declared year disagrees
// with the album's most common year — a tag that drifted during a partial
// re-tag, or a mis-filed track from a different pressing.
func checkAlbumYearConsistency(files []model.AudioFile) []model.ValidationIssue {
	counts := make(map[int]int)
	for _, f := range files {
		if y, ok := f.Metadata.Year.Get(); ok {
			counts[y]++
		}
	}
	if len(counts) < 2 {
		return nil
	}
	majority, best := 0, 0
	for y, n := range counts {
		if n > best {
			majority, best = y, n
		}
	}

	var issues []model.ValidationIssue
	for _, f := range files {
		if y, ok := f.Metadata.Year.Get(); ok && y != majority {
			issues = append(issues, issue(model.IssueInconsistentMetadata, model.SeverityInfo, f.Path,
				fmt.Sprintf("year %d disagrees with the album's predominant year %d", y, majority),
				"confirm which pressing this track actually belongs to"))
		}
	}
	return issues
}

func formatMissing(missing []int) string {
	s := ""
	for i, n := range missing {
		if i > 0 {
			s += ", "
		}
		s += strconv.Itoa(n)
	}
	return s
}
