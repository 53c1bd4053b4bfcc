package dedup

import (
	"testing"
	"time"

	"github.com/arvidsson/crateorganizer/internal/model"
)

func fileWithDigest(path, digest string, size int64) model.AudioFile {
	return model.AudioFile{
		Path:      path,
		SizeBytes: size,
		ModTime:   time.Now(),
		Digest:    model.Some(digest),
	}
}

func TestExactContentGroupsEqualDigests(t *testing.T) {
	files := []model.AudioFile{
		fileWithDigest("/a/one.flac", "abc123", 1000),
		fileWithDigest("/b/one-copy.flac", "abc123", 1000),
		fileWithDigest("/c/other.flac", "def456", 2000),
	}

	groups := exactContent(files)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	g := groups[0]
	if g.Tag != model.DuplicateExactContent {
		t.Fatalf("expected ExactContent tag, got %v", g.Tag)
	}
	if g.GroupKey != "abc123" {
		t.Fatalf("expected group key abc123, got %q", g.GroupKey)
	}
	if len(g.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(g.Members))
	}
	if g.WastedSpace != 1000 {
		t.Fatalf("expected wasted space 1000, got %d", g.WastedSpace)
	}
}

func TestExactContentSkipsAbsentDigests(t *testing.T) {
	files := []model.AudioFile{
		{Path: "/a/one.flac", Digest: model.None[string]()},
		{Path: "/b/two.flac", Digest: model.None[string]()},
	}
	if groups := exactContent(files); len(groups) != 0 {
		t.Fatalf("expected no groups from absent digests, got %d", len(groups))
	}
}

func TestExactContentSkipsSingletons(t *testing.T) {
	files := []model.AudioFile{
		fileWithDigest("/a/one.flac", "unique", 500),
	}
	if groups := exactContent(files); len(groups) != 0 {
		t.Fatalf("expected no groups for a singleton digest, got %d", len(groups))
	}
}
