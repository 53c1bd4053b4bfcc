package relocate

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/arvidsson/crateorganizer/internal/model"
	"github.com/arvidsson/crateorganizer/internal/xerr"
)

// Session owns one relocate call's rollback table: a mutable map guarded by
// a mutex, written only by the relocator and drained by bulk rollback under
// the same lock, matching the shared-resource contract for the rollback
// table.
type Session struct {
	ID string

	mu    sync.Mutex
	table map[string]model.RollbackEntry
}

// NewSession starts a fresh, empty rollback session.
func NewSession() *Session {
	return &Session{ID: uuid.NewString(), table: make(map[string]model.RollbackEntry)}
}

// NewSessionFromTable rebuilds a Session around a table persisted by a prior
// process, for a `rollback` invocation run after the `organize` call that
// produced it has already exited.
func NewSessionFromTable(id string, table map[string]model.RollbackEntry) *Session {
	if table == nil {
		table = make(map[string]model.RollbackEntry)
	}
	return &Session{ID: id, table: table}
}

func (s *Session) record(target string, entry model.RollbackEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table[target] = entry
}

// commit discards a recorded backup after its move succeeded: the backup
// file is no longer needed and the rollback entry is removed.
func (s *Session) commit(target string) {
	s.mu.Lock()
	entry, ok := s.table[target]
	if ok {
		delete(s.table, target)
	}
	s.mu.Unlock()
	if ok {
		os.Remove(entry.BackupPath)
	}
}

// restore is the per-file recovery path: if target has a recorded backup,
// move it back into place and drop the entry. A no-op if nothing was
// recorded (no collision occurred for this target).
func (s *Session) restore(target string) error {
	s.mu.Lock()
	entry, ok := s.table[target]
	if ok {
		delete(s.table, target)
	}
	s.mu.Unlock()
	if !ok {
		return nil
	}
	if err := os.Rename(entry.BackupPath, target); err != nil {
		return fmt.Errorf("%w: restoring %s: %v", xerr.RollbackFailed, target, err)
	}
	return nil
}

// Snapshot copies the current table for embedding in a RelocationResult.
// Entries remaining here after a call indicate partial execution.
func (s *Session) Snapshot() map[string]model.RollbackEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]model.RollbackEntry, len(s.table))
	for k, v := range s.table {
		out[k] = v
	}
	return out
}

// RollbackAll moves every recorded backup back to its target, continuing
// past per-entry errors and reporting how many it recovered. The table is
// cleared at the end regardless of per-entry outcome, so calling this twice
// is a no-op the second time.
func (s *Session) RollbackAll(ctx context.Context) model.RollbackResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := model.RollbackResult{Errors: make(map[string]error)}
	for target, entry := range s.table {
		select {
		case <-ctx.Done():
			result.Errors[target] = fmt.Errorf("%w: %v", xerr.Cancelled, ctx.Err())
			continue
		default:
		}

		if err := os.Rename(entry.BackupPath, target); err != nil {
			result.Errors[target] = fmt.Errorf("%w: restoring %s: %v", xerr.RollbackFailed, target, err)
			continue
		}
		result.Recovered++
	}

	s.table = make(map[string]model.RollbackEntry)
	return result
}
