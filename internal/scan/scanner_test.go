package scan

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/arvidsson/crateorganizer/internal/model"
)

func writeFakeMP3(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("ID3fake audio bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanEmptyDirectoryIsSuccess(t *testing.T) {
	dir := t.TempDir()
	result := Scan(context.Background(), dir, Config{})
	if result.Variant() != model.ScanSuccess {
		t.Fatalf("expected Success, got %v", result.Variant())
	}
	if result.SuccessRate() != 1.0 {
		t.Fatalf("expected success rate 1.0 for empty dir, got %f", result.SuccessRate())
	}
}

func TestScanMissingRootIsFailure(t *testing.T) {
	result := Scan(context.Background(), "/does/not/exist/at/all", Config{})
	if result.Variant() != model.ScanFailure {
		t.Fatalf("expected Failure, got %v", result.Variant())
	}
	if result.FailureCause() == nil {
		t.Fatal("expected a failure cause")
	}
}

func TestScanRootIsFileNotDirectory(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "notadir.txt")
	os.WriteFile(f, []byte("x"), 0o644)

	result := Scan(context.Background(), f, Config{})
	if result.Variant() != model.ScanFailure {
		t.Fatalf("expected Failure for non-directory root, got %v", result.Variant())
	}
}

func TestScanSkipsNonAudioExtensions(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("not audio"), 0o644)
	os.WriteFile(filepath.Join(dir, "cover.jpg"), []byte("not audio"), 0o644)

	result := Scan(context.Background(), dir, Config{})
	if len(result.Files()) != 0 {
		t.Fatalf("expected no audio files found, got %d", len(result.Files()))
	}
}

func TestScanHonorsAdditionalExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFakeMP3(t, filepath.Join(dir, "track.xyz"))

	withoutExt := Scan(context.Background(), dir, Config{})
	if len(withoutExt.Files())+len(withoutExt.Failed()) != 0 {
		t.Fatalf("unrecognized extension should be skipped entirely")
	}

	withExt := Scan(context.Background(), dir, Config{AdditionalExtensions: []string{".xyz"}})
	if len(withExt.Files())+len(withExt.Failed()) != 1 {
		t.Fatalf("expected the .xyz file to be picked up once an extension is registered")
	}
}

func TestScanRespectsCancelledContext(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 20; i++ {
		writeFakeMP3(t, filepath.Join(dir, "a", "track"+strconv.Itoa(i)+".mp3"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := Scan(ctx, dir, Config{})
	// Must return promptly without panicking regardless of variant.
	_ = result.Variant()
}
