package dedup

import (
	"sort"

	"golang.org/x/exp/maps"

	"github.com/arvidsson/crateorganizer/internal/model"
)

// exactContent groups files by content digest, the same bucket-by-key shape
// the teacher's cluster.go uses for its (now fuzzy) cluster map, except the
// key here is an exact SHA-256 rather than a derived signature. Files with
// an absent or empty digest are skipped entirely — they were never hashed,
// so grouping them would conflate "never compared" with "confirmed equal".
func exactContent(files []model.AudioFile) []model.DuplicateGroup {
	buckets := make(map[string][]model.AudioFile)
	for _, f := range files {
		digest, ok := f.Digest.Get()
		if !ok || digest == "" {
			continue
		}
		buckets[digest] = append(buckets[digest], f)
	}

	digests := maps.Keys(buckets)
	sort.Strings(digests)

	var groups []model.DuplicateGroup
	for _, digest := range digests {
		members := buckets[digest]
		if len(members) < 2 {
			continue
		}
		unitSize := members[0].SizeBytes
		groups = append(groups, model.DuplicateGroup{
			Tag:         model.DuplicateExactContent,
			GroupKey:    digest,
			UnitSize:    unitSize,
			Members:     members,
			WastedSpace: unitSize * int64(len(members)-1),
		})
	}
	return groups
}
