package relocate

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/arvidsson/crateorganizer/internal/model"
	"github.com/arvidsson/crateorganizer/internal/util"
	"github.com/arvidsson/crateorganizer/internal/xerr"
)

// copyBufferSize matches the teacher's executor.go copy loop.
const copyBufferSize = 4 << 20 // 4 MiB

// backupStamp is the compact timestamp format spec.md's backup filename
// convention uses: <original>.backup.<YYYYMMDDTHHMMSS>.
const backupStamp = "20060102T150405"

// moveOne relocates one file from src to dest under plan, following spec.md
// §4.5's per-file procedure: make room for dest (backing up an existing
// occupant when rollback is enabled), move the file into place, then commit
// or unwind the backup depending on the outcome.
func moveOne(ctx context.Context, src, dest string, plan model.RelocationPlan, session *Session, retryCfg *util.RetryConfig) (int64, error) {
	if plan.CreateParents {
		if err := util.RetryableMkdirAll(filepath.Dir(dest), 0o755, retryCfg); err != nil {
			return 0, fmt.Errorf("%w: creating parent for %s: %v", xerr.IO, dest, err)
		}
	}

	if _, err := util.RetryableStat(dest, retryCfg); err == nil {
		switch {
		case plan.RollbackEnabled:
			backup := dest + ".backup." + time.Now().Format(backupStamp)
			if err := util.RetryableRename(dest, backup, retryCfg); err != nil {
				return 0, fmt.Errorf("%w: backing up %s: %v", xerr.BackupFailed, dest, err)
			}
			session.record(dest, model.RollbackEntry{Target: dest, BackupPath: backup, CreatedAt: time.Now()})
		case !plan.ReplaceExisting:
			return 0, fmt.Errorf("%w: target exists: %s", xerr.TargetCollision, dest)
		}
	}

	var (
		n   int64
		err error
	)
	if plan.AtomicMove {
		n, err = renameMove(src, dest, retryCfg)
	} else {
		n, err = copyThenDelete(ctx, src, dest, retryCfg)
	}

	if err != nil {
		if restoreErr := session.restore(dest); restoreErr != nil {
			return 0, fmt.Errorf("%w (rollback also failed: %v)", fmt.Errorf("%w: %v", xerr.MoveFailed, err), restoreErr)
		}
		return 0, fmt.Errorf("%w: %v", xerr.MoveFailed, err)
	}

	session.commit(dest)
	return n, nil
}

func renameMove(src, dest string, retryCfg *util.RetryConfig) (int64, error) {
	info, err := util.RetryableStat(src, retryCfg)
	if err != nil {
		return 0, err
	}
	if err := util.RetryableRename(src, dest, retryCfg); err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// copyThenDelete is the cross-device-safe fallback: copy via a sibling
// ".part" file, atomically rename it into place, then remove the source —
// the same shape as the teacher's copyFile/moveFile pair in executor.go.
func copyThenDelete(ctx context.Context, src, dest string, retryCfg *util.RetryConfig) (int64, error) {
	written, err := copyViaTempFile(ctx, src, dest, retryCfg)
	if err != nil {
		return 0, err
	}
	if err := util.RetryableRemove(src, retryCfg); err != nil {
		return written, fmt.Errorf("copied but could not remove source %s: %w", src, err)
	}
	return written, nil
}

func copyViaTempFile(ctx context.Context, src, dest string, retryCfg *util.RetryConfig) (int64, error) {
	srcFile, err := util.RetryableOpen(src, retryCfg)
	if err != nil {
		return 0, err
	}
	defer srcFile.Close()

	tempPath := dest + ".part"
	destFile, err := util.RetryableCreate(tempPath, retryCfg)
	if err != nil {
		return 0, err
	}

	written, copyErr := copyWithContext(ctx, destFile, srcFile)
	closeErr := destFile.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		os.Remove(tempPath)
		return 0, copyErr
	}

	if err := util.RetryableRename(tempPath, dest, retryCfg); err != nil {
		os.Remove(tempPath)
		return 0, err
	}
	return written, nil
}

// copyWithContext is a context-cancellable buffered copy loop, adapted from
// executor.go's copyWithContext.
func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, copyBufferSize)
	var total int64
	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		default:
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			written, writeErr := dst.Write(buf[:n])
			total += int64(written)
			if writeErr != nil {
				return total, writeErr
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				return total, nil
			}
			return total, readErr
		}
	}
}
