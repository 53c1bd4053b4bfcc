// Package validate reads a scan's output and emits ValidationIssues plus
// album-completeness records, the way the teacher's cluster.go walks a
// collection and accumulates findings into a report — except there is no
// teacher validator to adapt directly, so this package builds the
// map-grouping/progress-reporting shape fresh in that idiom.
package validate

import (
	"os"

	"github.com/arvidsson/crateorganizer/internal/dedup"
	"github.com/arvidsson/crateorganizer/internal/model"
	"github.com/arvidsson/crateorganizer/internal/progress"
)

// Config controls one Validate call (spec §4.6).
type Config struct {
	CheckIntegrity         bool
	ValidateMetadata       bool
	StrictMode             bool
	DetectIncompleteAlbums bool
	FindDuplicates         bool
	ValidateCoverArt       bool
	SupportedFormats       map[string]bool // lowercase, no dot; empty set disables the check
	MinBitrateKbps         int
	Dedup                  dedup.Config // used only when FindDuplicates is set
	Bus                    progress.Bus
}

// Validate runs every enabled check over items and returns the accumulated
// report. items need not all belong to the same directory; album grouping
// below is keyed by (artist, album) across the whole slice.
func Validate(items []model.AudioFile, cfg Config) model.ValidationReport {
	var report model.ValidationReport
	total := int64(len(items))

	for i, f := range items {
		if cfg.ValidateMetadata {
			report.Issues = append(report.Issues, checkMetadata(f, cfg)...)
		}
		if cfg.CheckIntegrity {
			if iss := checkIntegrity(f); iss != nil {
				report.Issues = append(report.Issues, *iss)
			}
			if iss := checkFilename(f); iss != nil {
				report.Issues = append(report.Issues, *iss)
			}
		}
		if cfg.ValidateCoverArt {
			if iss := checkCoverArt(f); iss != nil {
				report.Issues = append(report.Issues, *iss)
			}
		}
		progress.Report(cfg.Bus, progress.Event{
			Stage: progress.StageValidate, SrcPath: f.Path,
			Processed: int64(i + 1), Total: total,
		})
	}

	if cfg.DetectIncompleteAlbums {
		completeness, issues := checkAlbumCompleteness(items)
		report.Completeness = completeness
		report.Issues = append(report.Issues, issues...)
	}

	if cfg.FindDuplicates {
		report.Issues = append(report.Issues, checkDuplicates(items, cfg.Dedup)...)
	}

	return report
}

// checkDuplicates runs the duplicate engine and turns every kept group's
// non-keeper members into one IssueDuplicateFile each — the keeper itself
// isn't flagged, since it's the copy a remediation would keep.
func checkDuplicates(items []model.AudioFile, cfg dedup.Config) []model.ValidationIssue {
	report := dedup.Analyze(items, cfg)

	var issues []model.ValidationIssue
	for _, g := range report.Groups {
		keeper := dedup.SuggestKeeper(g.Members)
		for _, m := range g.Members {
			if m.Path == keeper.Path {
				continue
			}
			issues = append(issues, issue(model.IssueDuplicateFile, model.SeverityWarning, m.Path,
				g.Tag.String()+" duplicate of "+keeper.Path,
				"remove or archive in favor of "+keeper.Path))
		}
	}
	return issues
}

// checkIntegrity flags a file this process can no longer open for reading;
// the digest recomputation spec §4.6 mentions as optional piggybacks on the
// scanner's own digest (AudioFile.Digest), so there is nothing further to
// recompute here.
func checkIntegrity(f model.AudioFile) *model.ValidationIssue {
	fh, err := os.Open(f.Path)
	if err != nil {
		iss := issue(model.IssueCorruptFile, model.SeverityCritical, f.Path,
			"file is not readable: "+err.Error(), "verify the file still exists and is not permission-locked")
		return &iss
	}
	fh.Close()
	return nil
}

