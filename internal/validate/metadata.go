package validate

import (
	"fmt"

	"github.com/arvidsson/crateorganizer/internal/model"
)

// checkMetadata covers spec.md's "missing title/artist/album -> Error
// (strict) or Warning; missing track#, year, genre -> Info" ladder, plus the
// bitrate and extension checks that live in the same contract section.
func checkMetadata(f model.AudioFile, cfg Config) []model.ValidationIssue {
	var issues []model.ValidationIssue
	m := f.Metadata

	coreMissingSeverity := model.SeverityWarning
	if cfg.StrictMode {
		coreMissingSeverity = model.SeverityError
	}

	if _, ok := m.Title.Get(); !ok {
		issues = append(issues, issue(model.IssueMissingMetadata, coreMissingSeverity, f.Path, "title is missing", "tag the file or let the enricher fill it in"))
	}
	if _, ok := m.Artist.Get(); !ok {
		issues = append(issues, issue(model.IssueMissingMetadata, coreMissingSeverity, f.Path, "artist is missing", "tag the file or let the enricher fill it in"))
	}
	if _, ok := m.Album.Get(); !ok {
		issues = append(issues, issue(model.IssueMissingMetadata, coreMissingSeverity, f.Path, "album is missing", "tag the file or let the enricher fill it in"))
	}

	if _, ok := m.Track.Get(); !ok {
		issues = append(issues, issue(model.IssueMissingMetadata, model.SeverityInfo, f.Path, "track number is missing", "tag the file or let the enricher fill it in"))
	}
	if _, ok := m.Year.Get(); !ok {
		issues = append(issues, issue(model.IssueMissingMetadata, model.SeverityInfo, f.Path, "year is missing", "tag the file or let the enricher fill it in"))
	}
	if _, ok := m.Genre.Get(); !ok {
		issues = append(issues, issue(model.IssueMissingMetadata, model.SeverityInfo, f.Path, "genre is missing", "tag the file or let the enricher fill it in"))
	}

	if bitrate, ok := m.BitrateKbps.Get(); ok && cfg.MinBitrateKbps > 0 && bitrate < cfg.MinBitrateKbps {
		issues = append(issues, issue(model.IssueLowQualityAudio, model.SeverityWarning, f.Path,
			fmt.Sprintf("bitrate %d kbps is below the configured minimum of %d kbps", bitrate, cfg.MinBitrateKbps),
			"re-encode or replace with a higher-bitrate source"))
	}

	if len(cfg.SupportedFormats) > 0 {
		ext := extOf(f.Path)
		if !cfg.SupportedFormats[ext] {
			issues = append(issues, issue(model.IssueInvalidFilename, model.SeverityWarning, f.Path,
				fmt.Sprintf("extension %q is not in the supported format set", ext),
				"convert to a supported format or adjust supported_formats"))
		}
	}

	return issues
}

func issue(kind model.IssueKind, sev model.Severity, path, message, remediation string) model.ValidationIssue {
	return model.ValidationIssue{Kind: kind, Severity: sev, Path: path, Message: message, Remediation: remediation}
}
