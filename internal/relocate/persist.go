package relocate

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/arvidsson/crateorganizer/internal/model"
)

// rollbackFile is the on-disk shape of a persisted rollback table: a
// RelocationResult's RollbackTable plus the session ID it belongs to, so a
// later `rollback` invocation (a separate process) can recover exactly the
// entries one `organize` call left pending.
type rollbackFile struct {
	SessionID string                             `json:"session_id"`
	Entries   map[string]model.RollbackEntry `json:"entries"`
}

// SaveRollbackTable writes table to path as JSON. Called after Relocate
// returns when plan.RollbackEnabled and the result left entries pending.
func SaveRollbackTable(path, sessionID string, table map[string]model.RollbackEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating rollback file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(rollbackFile{SessionID: sessionID, Entries: table})
}

// LoadRollbackTable reads a rollback file written by SaveRollbackTable.
func LoadRollbackTable(path string) (sessionID string, table map[string]model.RollbackEntry, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("reading rollback file: %w", err)
	}
	var rf rollbackFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return "", nil, fmt.Errorf("parsing rollback file: %w", err)
	}
	return rf.SessionID, rf.Entries, nil
}
