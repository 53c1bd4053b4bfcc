package meta

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/arvidsson/crateorganizer/internal/xerr"
)

// hashBufSize is spec.md §4.1's 8 KiB streaming read size.
const hashBufSize = 8 * 1024

// ContentDigest returns the lower-hex SHA-256 of a file's bytes. The content
// hash (spec §6), unlike the teacher's dev/inode/size/mtime SHA-1 identity
// key, is stable across moves and copies — it is the exact-duplicate axis's
// key.
func ContentDigest(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: opening %s: %v", xerr.IO, path, err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, hashBufSize)
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		n, readErr := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return "", fmt.Errorf("%w: hashing %s: %v", xerr.HashingFailed, path, readErr)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
