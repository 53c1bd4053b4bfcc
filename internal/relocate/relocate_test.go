package relocate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arvidsson/crateorganizer/internal/model"
	"github.com/arvidsson/crateorganizer/internal/pattern"
)

func TestRelocateMovesFilesIntoTemplatedLayout(t *testing.T) {
	srcDir := t.TempDir()
	destRoot := t.TempDir()

	src := filepath.Join(srcDir, "track.mp3")
	writeFile(t, src, "audio-bytes")

	tpl, err := pattern.Parse(pattern.Standard)
	if err != nil {
		t.Fatal(err)
	}
	m := model.NewMetadataBuilder().Artist("Eagles").Album("Hotel California").Title("Hotel California").Track(1).Build()

	plan := model.RelocationPlan{
		Items:         map[string]model.Metadata{src: m},
		TargetRoot:    destRoot,
		Template:      tpl,
		CreateParents: true,
		AtomicMove:    true,
	}

	result := Relocate(context.Background(), plan, Config{})
	if len(result.Failed) != 0 {
		t.Fatalf("expected no failures, got %v", result.Failed)
	}
	if len(result.Succeeded) != 1 {
		t.Fatalf("expected 1 success, got %d", len(result.Succeeded))
	}

	want := filepath.Join(destRoot, "Eagles", "Hotel California", "01 - Hotel California.mp3")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected file at %s: %v", want, err)
	}
	if result.BytesMoved != int64(len("audio-bytes")) {
		t.Fatalf("expected BytesMoved %d, got %d", len("audio-bytes"), result.BytesMoved)
	}
}

func TestRelocateRejectsCollidingTargets(t *testing.T) {
	srcDir := t.TempDir()
	destRoot := t.TempDir()

	srcA := filepath.Join(srcDir, "a.mp3")
	srcB := filepath.Join(srcDir, "b.mp3")
	writeFile(t, srcA, "a-bytes")
	writeFile(t, srcB, "b-bytes")

	tpl, err := pattern.Parse(pattern.Standard)
	if err != nil {
		t.Fatal(err)
	}
	m := model.NewMetadataBuilder().Artist("Eagles").Album("Hotel California").Title("Hotel California").Track(1).Build()

	plan := model.RelocationPlan{
		Items:         map[string]model.Metadata{srcA: m, srcB: m},
		TargetRoot:    destRoot,
		Template:      tpl,
		CreateParents: true,
		AtomicMove:    true,
	}

	result := Relocate(context.Background(), plan, Config{})
	if len(result.Succeeded) != 0 {
		t.Fatalf("expected no successes when both sources collide, got %v", result.Succeeded)
	}
	if len(result.Failed) != 2 {
		t.Fatalf("expected both sources rejected, got %v", result.Failed)
	}
}

func TestRelocateEmitsEventsPerFile(t *testing.T) {
	srcDir := t.TempDir()
	destRoot := t.TempDir()
	src := filepath.Join(srcDir, "track.mp3")
	writeFile(t, src, "bytes")

	tpl, err := pattern.Parse(pattern.Standard)
	if err != nil {
		t.Fatal(err)
	}
	m := model.NewMetadataBuilder().Artist("Eagles").Album("Hotel California").Title("Hotel California").Track(1).Build()

	var kinds []model.RelocationEventKind
	plan := model.RelocationPlan{
		Items:         map[string]model.Metadata{src: m},
		TargetRoot:    destRoot,
		Template:      tpl,
		CreateParents: true,
		AtomicMove:    true,
	}

	Relocate(context.Background(), plan, Config{EventFn: func(ev model.RelocationEvent) {
		kinds = append(kinds, ev.Kind)
	}})

	if len(kinds) != 2 {
		t.Fatalf("expected pattern-evaluated + file-organized events, got %v", kinds)
	}
	if kinds[0] != model.EventPatternEvaluated || kinds[1] != model.EventFileOrganized {
		t.Fatalf("unexpected event sequence: %v", kinds)
	}
}

func TestRelocateOverwriteCommitsBackup(t *testing.T) {
	srcDir := t.TempDir()
	destRoot := t.TempDir()

	src := filepath.Join(srcDir, "track.mp3")
	writeFile(t, src, "new-bytes")

	tpl, err := pattern.Parse(pattern.Standard)
	if err != nil {
		t.Fatal(err)
	}
	m := model.NewMetadataBuilder().Artist("Eagles").Album("Hotel California").Title("Hotel California").Track(1).Build()

	existing := filepath.Join(destRoot, "Eagles", "Hotel California", "01 - Hotel California.mp3")
	if err := os.MkdirAll(filepath.Dir(existing), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, existing, "old-bytes")

	plan := model.RelocationPlan{
		Items:           map[string]model.Metadata{src: m},
		TargetRoot:      destRoot,
		Template:        tpl,
		CreateParents:   true,
		AtomicMove:      true,
		RollbackEnabled: true,
	}

	result := Relocate(context.Background(), plan, Config{})
	if len(result.Succeeded) != 1 {
		t.Fatalf("expected the move to succeed, got failed=%v", result.Failed)
	}
	if len(result.RollbackTable) != 0 {
		t.Fatalf("expected rollback table empty after a committed success, got %v", result.RollbackTable)
	}
}
