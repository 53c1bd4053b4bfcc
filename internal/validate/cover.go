package validate

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arvidsson/crateorganizer/internal/model"
)

// coverArtLowResBytes is spec §4.6's "embedded cover art below 10 KiB"
// threshold.
const coverArtLowResBytes = 10 * 1024

var coverArtBasenames = []string{"cover", "folder", "albumart", "front"}
var coverArtExts = []string{"jpg", "jpeg", "png"}

// checkCoverArt looks for embedded art first, then the conventional
// sibling-file names in the track's directory.
func checkCoverArt(f model.AudioFile) *model.ValidationIssue {
	if cover, ok := f.Metadata.CoverArt.Get(); ok {
		if len(cover) < coverArtLowResBytes {
			iss := issue(model.IssueMissingCoverArt, model.SeverityInfo, f.Path,
				"embedded cover art is low resolution (under 10 KiB)",
				"replace with a higher-resolution embed or a sibling cover file")
			return &iss
		}
		return nil
	}

	if hasSiblingCoverArt(filepath.Dir(f.Path)) {
		return nil
	}

	iss := issue(model.IssueMissingCoverArt, model.SeverityWarning, f.Path,
		"no embedded cover art and no cover/folder/albumart/front image in the album directory",
		"add a cover.jpg or embed artwork in the file's tags")
	return &iss
}

func hasSiblingCoverArt(dir string) bool {
	for _, base := range coverArtBasenames {
		for _, ext := range coverArtExts {
			candidates := []string{base + "." + ext, base + "." + strings.ToUpper(ext)}
			for _, name := range candidates {
				if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
					return true
				}
			}
		}
	}
	return false
}
