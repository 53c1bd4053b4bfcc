package relocate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arvidsson/crateorganizer/internal/model"
)

func TestSessionCommitRemovesBackup(t *testing.T) {
	dir := t.TempDir()
	backup := filepath.Join(dir, "song.mp3.backup.20260101T000000")
	if err := os.WriteFile(backup, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewSession()
	target := filepath.Join(dir, "song.mp3")
	s.record(target, model.RollbackEntry{Target: target, BackupPath: backup})

	s.commit(target)

	if _, err := os.Stat(backup); !os.IsNotExist(err) {
		t.Fatalf("expected backup removed, stat err = %v", err)
	}
	if len(s.Snapshot()) != 0 {
		t.Fatalf("expected rollback table empty after commit")
	}
}

func TestSessionRestoreMovesBackupBack(t *testing.T) {
	dir := t.TempDir()
	backup := filepath.Join(dir, "song.mp3.backup.20260101T000000")
	if err := os.WriteFile(backup, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewSession()
	target := filepath.Join(dir, "song.mp3")
	s.record(target, model.RollbackEntry{Target: target, BackupPath: backup})

	if err := s.restore(target); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected target restored: %v", err)
	}
	if len(s.Snapshot()) != 0 {
		t.Fatalf("expected rollback entry cleared after restore")
	}
}

func TestSessionRestoreNoEntryIsNoop(t *testing.T) {
	s := NewSession()
	if err := s.restore("/never/recorded"); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestRollbackAllRecoversEveryEntry(t *testing.T) {
	dir := t.TempDir()
	s := NewSession()

	for i := 0; i < 3; i++ {
		target := filepath.Join(dir, "t"+string(rune('a'+i))+".mp3")
		backup := target + ".backup.20260101T000000"
		if err := os.WriteFile(backup, []byte("old"), 0o644); err != nil {
			t.Fatal(err)
		}
		s.record(target, model.RollbackEntry{Target: target, BackupPath: backup})
	}

	result := s.RollbackAll(context.Background())
	if result.Recovered != 3 {
		t.Fatalf("expected 3 recovered, got %d", result.Recovered)
	}
	if len(s.Snapshot()) != 0 {
		t.Fatalf("expected table cleared after RollbackAll")
	}

	// second call is a no-op
	second := s.RollbackAll(context.Background())
	if second.Recovered != 0 {
		t.Fatalf("expected idempotent second call, got %d recovered", second.Recovered)
	}
}
