package relocate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/arvidsson/crateorganizer/internal/model"
	"github.com/arvidsson/crateorganizer/internal/util"
	"github.com/arvidsson/crateorganizer/internal/xerr"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestMoveOneAtomicRenameIntoFreshDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mp3")
	writeFile(t, src, "payload")
	dest := filepath.Join(dir, "nested", "dest.mp3")

	plan := model.RelocationPlan{CreateParents: true, AtomicMove: true}
	session := NewSession()

	n, err := moveOne(context.Background(), src, dest, plan, session, util.DefaultRetryConfig())
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(len("payload")) {
		t.Fatalf("expected %d bytes, got %d", len("payload"), n)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("expected dest to exist: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("expected src gone, stat err = %v", err)
	}
}

func TestMoveOneBackupThenCommitOnSuccess(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mp3")
	writeFile(t, src, "new")
	dest := filepath.Join(dir, "dest.mp3")
	writeFile(t, dest, "old")

	plan := model.RelocationPlan{AtomicMove: true, RollbackEnabled: true}
	session := NewSession()

	if _, err := moveOne(context.Background(), src, dest, plan, session, util.DefaultRetryConfig()); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dest)
	if err != nil || string(got) != "new" {
		t.Fatalf("expected dest to contain new content, got %q err %v", got, err)
	}
	if len(session.Snapshot()) != 0 {
		t.Fatalf("expected rollback entry committed away")
	}

	entries, _ := filepath.Glob(filepath.Join(dir, "dest.mp3.backup.*"))
	if len(entries) != 0 {
		t.Fatalf("expected backup file removed after commit, found %v", entries)
	}
}

func TestMoveOneRejectsCollisionWhenRollbackDisabledAndReplaceDisabled(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mp3")
	writeFile(t, src, "new")
	dest := filepath.Join(dir, "dest.mp3")
	writeFile(t, dest, "old")

	plan := model.RelocationPlan{AtomicMove: true}
	session := NewSession()

	_, err := moveOne(context.Background(), src, dest, plan, session, util.DefaultRetryConfig())
	if !errors.Is(err, xerr.TargetCollision) {
		t.Fatalf("expected TargetCollision, got %v", err)
	}
	if got, _ := os.ReadFile(dest); string(got) != "old" {
		t.Fatalf("expected dest untouched, got %q", got)
	}
}

func TestMoveOneRestoresBackupOnMoveFailure(t *testing.T) {
	dir := t.TempDir()
	missingSrc := filepath.Join(dir, "does-not-exist.mp3")
	dest := filepath.Join(dir, "dest.mp3")
	writeFile(t, dest, "old")

	plan := model.RelocationPlan{AtomicMove: true, RollbackEnabled: true}
	session := NewSession()

	_, err := moveOne(context.Background(), missingSrc, dest, plan, session, util.DefaultRetryConfig())
	if !errors.Is(err, xerr.MoveFailed) {
		t.Fatalf("expected MoveFailed, got %v", err)
	}
	got, readErr := os.ReadFile(dest)
	if readErr != nil || string(got) != "old" {
		t.Fatalf("expected dest restored to original content, got %q err %v", got, readErr)
	}
	if len(session.Snapshot()) != 0 {
		t.Fatalf("expected rollback entry cleared after restore")
	}
}

func TestMoveOneNonAtomicCopyThenDelete(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mp3")
	writeFile(t, src, "payload-bytes")
	dest := filepath.Join(dir, "dest.mp3")

	plan := model.RelocationPlan{AtomicMove: false}
	session := NewSession()

	n, err := moveOne(context.Background(), src, dest, plan, session, util.DefaultRetryConfig())
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(len("payload-bytes")) {
		t.Fatalf("expected %d bytes written, got %d", len("payload-bytes"), n)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("expected source removed after copy")
	}
	got, err := os.ReadFile(dest)
	if err != nil || string(got) != "payload-bytes" {
		t.Fatalf("expected dest to contain copied content, got %q err %v", got, err)
	}
}
