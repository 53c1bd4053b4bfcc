package dedup

import (
	"fmt"
	"sort"

	"golang.org/x/exp/maps"

	"github.com/arvidsson/crateorganizer/internal/model"
)

// scorableFields counts how many of the five comparison fields a file's
// metadata has present at all, independent of whether they'd match
// anything. A file with zero scorable fields carries no metadata signal —
// forcing it into a MetadataMatch comparison would manufacture a score from
// nothing, so pairScore refuses to score it (see Open Question 1 in
// DESIGN.md) and leaves it to SizeBucket instead.
func scorableFields(m model.Metadata) int {
	n := 0
	if _, ok := m.Title.Get(); ok {
		n++
	}
	if _, ok := m.Artist.Get(); ok {
		n++
	}
	if _, ok := m.Album.Get(); ok {
		n++
	}
	if _, ok := m.Year.Get(); ok {
		n++
	}
	if _, ok := m.Track.Get(); ok {
		n++
	}
	return n
}

// pairScore compares the five-field vector (title, artist, album, year,
// track#) case-insensitively after Unicode normalization, whitespace
// collapse and trim, and returns matching_non_absent_fields / 5. The second
// return is false when either side has no scorable fields at all.
func pairScore(a, b model.Metadata) (float64, bool) {
	if scorableFields(a) == 0 || scorableFields(b) == 0 {
		return 0, false
	}

	// A live/remix/acoustic/demo/instrumental recording and its studio
	// counterpart can share every other field; normalizeTitle strips the
	// bracketed marker that is the only thing distinguishing them, so
	// check DetectVersionType against the raw titles before that marker
	// is gone. A mismatch here means two different recordings, not a
	// duplicate, regardless of how many other fields agree.
	if at, ok := a.Title.Get(); ok {
		if bt, ok := b.Title.Get(); ok && DetectVersionType(at) != DetectVersionType(bt) {
			return 0, false
		}
	}

	matches := 0

	if at, ok := a.Title.Get(); ok {
		if bt, ok := b.Title.Get(); ok && normalizeTitle(at) == normalizeTitle(bt) {
			matches++
		}
	}
	if aa, ok := a.Artist.Get(); ok {
		if ba, ok := b.Artist.Get(); ok && normalizeArtist(aa) == normalizeArtist(ba) {
			matches++
		}
	}
	if aal, ok := a.Album.Get(); ok {
		if bal, ok := b.Album.Get(); ok && normalizeField(aal) == normalizeField(bal) {
			matches++
		}
	}
	if ay, ok := a.Year.Get(); ok {
		if by, ok := b.Year.Get(); ok && ay == by {
			matches++
		}
	}
	if atr, ok := a.Track.Get(); ok {
		if btr, ok := b.Track.Get(); ok && atr == btr {
			matches++
		}
	}

	return float64(matches) / 5.0, true
}

// disjointSet is a plain union-find over file indices, the same
// no-interfaces, operate-on-slices style the teacher's cluster.go uses for
// its bucket map.
type disjointSet struct {
	parent []int
}

func newDisjointSet(n int) *disjointSet {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &disjointSet{parent: parent}
}

func (d *disjointSet) find(x int) int {
	for d.parent[x] != x {
		d.parent[x] = d.parent[d.parent[x]]
		x = d.parent[x]
	}
	return x
}

func (d *disjointSet) union(a, b int) {
	ra, rb := d.find(a), d.find(b)
	if ra != rb {
		d.parent[ra] = rb
	}
}

// metadataMatch unions files whose pairwise score clears threshold, then
// emits one group per resulting cluster of size >= 2, keyed by the
// normalized signature of its first member.
func metadataMatch(files []model.AudioFile, threshold float64) []model.DuplicateGroup {
	n := len(files)
	if n < 2 {
		return nil
	}

	ds := newDisjointSet(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			score, ok := pairScore(files[i].Metadata, files[j].Metadata)
			if !ok || score < threshold {
				continue
			}
			ds.union(i, j)
		}
	}

	clusters := make(map[int][]model.AudioFile)
	for i, f := range files {
		root := ds.find(i)
		clusters[root] = append(clusters[root], f)
	}

	roots := maps.Keys(clusters)
	sort.Ints(roots)

	var groups []model.DuplicateGroup
	for _, root := range roots {
		members := clusters[root]
		if len(members) < 2 {
			continue
		}
		groups = append(groups, model.DuplicateGroup{
			Tag:      model.DuplicateMetadataMatch,
			GroupKey: metadataSignature(members[0].Metadata),
			Members:  members,
		})
	}
	return groups
}

func metadataSignature(m model.Metadata) string {
	title, _ := m.Title.Get()
	artist, _ := m.Artist.Get()
	album, _ := m.Album.Get()
	year, _ := m.Year.Get()
	track, _ := m.Track.Get()
	return fmt.Sprintf("%s|%s|%s|%d|%d", normalizeTitle(title), normalizeArtist(artist), normalizeField(album), year, track)
}
