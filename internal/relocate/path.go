package relocate

import "path/filepath"

// joinUnderRoot joins pattern.Evaluate's per-segment path components onto
// root, each segment already sanitized so no component can escape root via
// "..".
func joinUnderRoot(root string, segments []string) string {
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, root)
	parts = append(parts, segments...)
	return filepath.Join(parts...)
}
