package dedup

import (
	"fmt"
	"sort"

	"golang.org/x/exp/maps"

	"github.com/arvidsson/crateorganizer/internal/model"
)

// defaultSizeThresholdBytes is the minimum file size considered for a
// size-bucket match; below it, byte-size collisions are too common to be
// meaningful signal.
const defaultSizeThresholdBytes = 1 << 20 // 1 MiB

// sizeBucket groups files of identical byte size, ignoring anything smaller
// than thresholdBytes. It is the lowest-confidence of the three detectors:
// equal size alone says nothing about content, so applyPriority in
// dedup.go only surfaces a size-bucket group once ExactContent and
// MetadataMatch have had first claim on its members.
func sizeBucket(files []model.AudioFile, thresholdBytes int64) []model.DuplicateGroup {
	if thresholdBytes <= 0 {
		thresholdBytes = defaultSizeThresholdBytes
	}

	buckets := make(map[int64][]model.AudioFile)
	for _, f := range files {
		if f.SizeBytes < thresholdBytes {
			continue
		}
		buckets[f.SizeBytes] = append(buckets[f.SizeBytes], f)
	}

	sizes := maps.Keys(buckets)
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })

	var groups []model.DuplicateGroup
	for _, size := range sizes {
		members := buckets[size]
		if len(members) < 2 {
			continue
		}
		groups = append(groups, model.DuplicateGroup{
			Tag:      model.DuplicateSizeBucket,
			GroupKey: fmt.Sprintf("size:%d", size),
			UnitSize: size,
			Members:  members,
		})
	}
	return groups
}
