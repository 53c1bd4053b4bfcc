// Package dedup detects duplicate audio files along three independent
// axes — identical content, matching metadata, and coincidental byte-size
// collisions — then collapses overlapping findings into one prioritized
// report, the same bucket-then-merge shape as the teacher's cluster.go
// generalized from an exact-key grouping into a union-find over a
// similarity score.
package dedup

import (
	"github.com/arvidsson/crateorganizer/internal/model"
	"github.com/arvidsson/crateorganizer/internal/progress"
)

// Config controls one Analyze call.
type Config struct {
	MetadataEnabled     bool
	SimilarityThreshold float64 // [0,1]; a pair matches when score >= this
	SizeThresholdBytes  int64   // default 1 MiB, applied by sizeBucket
	Bus                 progress.Bus
}

// Report is the outcome of running all three detectors and applying the
// deduplication priority.
type Report struct {
	Groups         []model.DuplicateGroup // final, priority-filtered, visible list
	ExactContent   []model.DuplicateGroup // unfiltered, for inspection/tests
	MetadataMatch  []model.DuplicateGroup
	SizeBucket     []model.DuplicateGroup
	Stats          Statistics
}

// Statistics summarizes a Report's coverage.
type Statistics struct {
	TotalFilesAnalyzed    int
	TotalDuplicateFiles   int
	DuplicatePercentage   float64
	TotalWastedSpace      int64
}

// Analyze runs ExactContent, then (if enabled) MetadataMatch, then
// SizeBucket, and merges them under the fixed priority ExactContent >
// MetadataMatch > SizeBucket.
func Analyze(files []model.AudioFile, cfg Config) Report {
	progress.Report(cfg.Bus, progress.Event{Stage: progress.StageDedup, Message: "exact content", Total: int64(len(files))})
	exact := exactContent(files)

	var meta []model.DuplicateGroup
	if cfg.MetadataEnabled {
		progress.Report(cfg.Bus, progress.Event{Stage: progress.StageDedup, Message: "metadata match"})
		meta = metadataMatch(files, cfg.SimilarityThreshold)
	}

	progress.Report(cfg.Bus, progress.Event{Stage: progress.StageDedup, Message: "size bucket"})
	size := sizeBucket(files, cfg.SizeThresholdBytes)

	visible := applyPriority(exact, meta, size)

	report := Report{
		Groups:        visible,
		ExactContent:  exact,
		MetadataMatch: meta,
		SizeBucket:    size,
	}
	report.Stats = computeStatistics(files, visible)

	progress.Report(cfg.Bus, progress.Event{Stage: progress.StageDedup, Message: "done", Processed: int64(len(files)), Total: int64(len(files))})

	return report
}

// applyPriority walks groups in priority order ExactContent -> MetadataMatch
// -> SizeBucket, tracking already-claimed paths. A later group is dropped
// entirely if every member is already claimed; otherwise its claimed
// members are removed and it survives if >= 2 members remain.
func applyPriority(tiers ...[]model.DuplicateGroup) []model.DuplicateGroup {
	claimed := make(map[string]bool)
	var visible []model.DuplicateGroup

	for _, tier := range tiers {
		for _, g := range tier {
			var unclaimed []model.AudioFile
			anyUnclaimed := false
			for _, m := range g.Members {
				if !claimed[m.Path] {
					anyUnclaimed = true
					unclaimed = append(unclaimed, m)
				}
			}
			if !anyUnclaimed {
				continue
			}
			if len(unclaimed) < 2 {
				for _, m := range g.Members {
					claimed[m.Path] = true
				}
				continue
			}

			kept := g
			kept.Members = unclaimed
			visible = append(visible, kept)

			for _, m := range g.Members {
				claimed[m.Path] = true
			}
		}
	}
	return visible
}

func computeStatistics(files []model.AudioFile, groups []model.DuplicateGroup) Statistics {
	stats := Statistics{TotalFilesAnalyzed: len(files)}

	for _, g := range groups {
		stats.TotalDuplicateFiles += len(g.Members) - 1
		if g.Tag == model.DuplicateExactContent {
			stats.TotalWastedSpace += g.WastedSpace
		}
	}

	if stats.TotalFilesAnalyzed > 0 {
		stats.DuplicatePercentage = float64(stats.TotalDuplicateFiles) / float64(stats.TotalFilesAnalyzed) * 100.0
	}

	return stats
}
