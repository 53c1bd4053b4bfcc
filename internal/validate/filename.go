package validate

import (
	"path/filepath"
	"strings"

	"github.com/arvidsson/crateorganizer/internal/model"
	"github.com/arvidsson/crateorganizer/internal/sanitize"
)

const (
	filenameMaxLen      = 100
	filenamePlaceholder = "Unknown"
)

func extOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// checkFilename flags a file whose on-disk base name contains characters,
// repeated underscores, or a length the sanitizer would have rewritten —
// i.e. the name didn't come from (or survive) this engine's own pattern
// output.
func checkFilename(f model.AudioFile) *model.ValidationIssue {
	base := filepath.Base(f.Path)
	clean := sanitize.Segment(base, filenameMaxLen, filenamePlaceholder)
	if clean == base {
		return nil
	}
	iss := issue(model.IssueInvalidFilename, model.SeverityWarning, f.Path,
		"filename contains characters or length the path sanitizer would rewrite",
		"rename to "+clean)
	return &iss
}
