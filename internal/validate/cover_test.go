package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arvidsson/crateorganizer/internal/model"
)

func TestCheckCoverArtMissingEverywhere(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "track.mp3")
	f := model.AudioFile{Path: path, Metadata: model.Metadata{}}

	iss := checkCoverArt(f)
	if iss == nil || iss.Severity != model.SeverityWarning {
		t.Fatalf("expected a Warning for missing cover art, got %+v", iss)
	}
}

func TestCheckCoverArtSiblingFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cover.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	f := model.AudioFile{Path: filepath.Join(dir, "track.mp3"), Metadata: model.Metadata{}}

	if iss := checkCoverArt(f); iss != nil {
		t.Fatalf("expected no issue with a sibling cover.jpg, got %+v", iss)
	}
}

func TestCheckCoverArtEmbeddedLowRes(t *testing.T) {
	b := model.NewMetadataBuilder().CoverArt(make([]byte, 100))
	f := model.AudioFile{Path: "/a/b.mp3", Metadata: b.Build()}

	iss := checkCoverArt(f)
	if iss == nil || iss.Severity != model.SeverityInfo {
		t.Fatalf("expected an Info low-resolution issue, got %+v", iss)
	}
}

func TestCheckCoverArtEmbeddedSufficient(t *testing.T) {
	b := model.NewMetadataBuilder().CoverArt(make([]byte, 20*1024))
	f := model.AudioFile{Path: "/a/b.mp3", Metadata: b.Build()}

	if iss := checkCoverArt(f); iss != nil {
		t.Fatalf("expected no issue for a sufficiently large embed, got %+v", iss)
	}
}
