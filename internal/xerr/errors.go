// Package xerr carries the core's error-kind taxonomy as sentinel values,
// wrapped with fmt.Errorf("...: %w", ...) the way the teacher's util package
// wraps its own sentinels, and inspected with errors.Is/errors.As.
package xerr

import "errors"

// Kind-bearing sentinels. A caller distinguishes error kinds with
// errors.Is(err, xerr.NotFound), not by string matching.
var (
	InvalidInput      = errors.New("invalid input")
	NotFound          = errors.New("not found")
	NotADirectory     = errors.New("not a directory")
	IO                = errors.New("i/o error")
	Parse             = errors.New("parse error")
	ExtractionFailed  = errors.New("extraction failed")
	HashingFailed     = errors.New("hashing failed")
	TargetCollision   = errors.New("target collision")
	MoveFailed        = errors.New("move failed")
	BackupFailed      = errors.New("backup failed")
	RollbackFailed    = errors.New("rollback failed")
	Cancelled         = errors.New("cancelled")
)

// Is reports whether err carries kind anywhere in its wrap chain.
func Is(err, kind error) bool {
	return errors.Is(err, kind)
}
