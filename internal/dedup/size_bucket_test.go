package dedup

import (
	"testing"
	"time"

	"github.com/arvidsson/crateorganizer/internal/model"
)

func plainFile(path string, size int64) model.AudioFile {
	return model.AudioFile{Path: path, SizeBytes: size, ModTime: time.Now(), Digest: model.None[string]()}
}

func TestSizeBucketGroupsEqualSizesAboveThreshold(t *testing.T) {
	files := []model.AudioFile{
		plainFile("/a/x.wav", 5<<20),
		plainFile("/b/y.wav", 5<<20),
		plainFile("/c/z.wav", 3<<20),
	}

	groups := sizeBucket(files, 0)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].GroupKey != "size:5242880" {
		t.Fatalf("unexpected group key %q", groups[0].GroupKey)
	}
	if groups[0].Tag != model.DuplicateSizeBucket {
		t.Fatalf("expected SizeBucket tag, got %v", groups[0].Tag)
	}
}

func TestSizeBucketSkipsFilesBelowThreshold(t *testing.T) {
	files := []model.AudioFile{
		plainFile("/a/x.mp3", 100),
		plainFile("/b/y.mp3", 100),
	}
	if groups := sizeBucket(files, 0); len(groups) != 0 {
		t.Fatalf("expected small files to be skipped by default threshold, got %d groups", len(groups))
	}
}

func TestSizeBucketHonorsCustomThreshold(t *testing.T) {
	files := []model.AudioFile{
		plainFile("/a/x.mp3", 2000),
		plainFile("/b/y.mp3", 2000),
	}
	if groups := sizeBucket(files, 1000); len(groups) != 1 {
		t.Fatalf("expected 1 group with a lowered threshold, got %d", len(groups))
	}
}
