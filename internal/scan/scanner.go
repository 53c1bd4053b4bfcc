// Package scan walks a directory tree, extracts metadata for every audio
// file it finds, and reports a model.ScanResult. The walk runs in the
// calling goroutine and the extraction/hashing work runs on a bounded worker
// pool, the same shape as the teacher's scanner: a filepath.WalkDir producer feeding a buffered
// channel, a fixed worker count draining it, atomic counters for progress.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arvidsson/crateorganizer/internal/meta"
	"github.com/arvidsson/crateorganizer/internal/model"
	"github.com/arvidsson/crateorganizer/internal/progress"
	"github.com/arvidsson/crateorganizer/internal/xerr"
)

// AudioExtensions are the extensions recognized without any extra
// configuration, matching spec.md §6's default supported-extensions set
// exactly. Callers that need more (aac, opus, wma, ...) add them via
// Config.AdditionalExtensions rather than having them silently enabled here.
var AudioExtensions = []string{".mp3", ".flac", ".m4a", ".mp4", ".ogg", ".wav"}

// Config controls one Scan call.
type Config struct {
	AdditionalExtensions []string
	Concurrency          int
	Bus                  progress.Bus
	HashContent          bool // compute a SHA-256 content digest per file
	FollowSymlinks       bool // spec.md §6: off by default
}

func (c Config) extensionSet() map[string]bool {
	set := make(map[string]bool, len(AudioExtensions)+len(c.AdditionalExtensions))
	for _, e := range AudioExtensions {
		set[strings.ToLower(e)] = true
	}
	for _, e := range c.AdditionalExtensions {
		set[strings.ToLower(e)] = true
	}
	return set
}

// Scan walks root and returns the closed-sum ScanResult: Success when every
// discovered file extracted cleanly, Partial when some subset failed,
// Failure when root itself couldn't be walked or nothing could be
// extracted at all.
func Scan(ctx context.Context, root string, cfg Config) model.ScanResult {
	startedAt := time.Now()

	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	extensions := cfg.extensionSet()

	info, statErr := os.Stat(root)
	if statErr != nil {
		return model.NewScanFailure(startedAt, time.Since(startedAt),
			fmt.Errorf("%w: %v", xerr.NotFound, statErr), nil)
	}
	if !info.IsDir() {
		return model.NewScanFailure(startedAt, time.Since(startedAt),
			fmt.Errorf("%w: %s is not a directory", xerr.NotADirectory, root), nil)
	}

	paths := make(chan string, 256)
	type outcome struct {
		file model.AudioFile
		fail *model.ScanFailedPath
	}
	results := make(chan outcome, 256)

	var found, processed atomic.Int64

	progressDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-progressDone:
				return
			case <-ticker.C:
				progress.Report(cfg.Bus, progress.Event{
					Stage:     progress.StageScan,
					Processed: processed.Load(),
					Total:     found.Load(),
				})
			}
		}
	}()

	var workers sync.WaitGroup
	for i := 0; i < cfg.Concurrency; i++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			for path := range paths {
				select {
				case <-ctx.Done():
					return
				default:
				}
				af, err := extractOne(ctx, path, cfg.HashContent)
				processed.Add(1)
				if err != nil {
					results <- outcome{fail: &model.ScanFailedPath{Path: path, Err: err}}
					progress.Report(cfg.Bus, progress.Event{Stage: progress.StageScan, SrcPath: path, Err: err})
					continue
				}
				results <- outcome{file: af}
				progress.Report(cfg.Bus, progress.Event{Stage: progress.StageScan, SrcPath: path})
			}
		}()
	}

	var collectWg sync.WaitGroup
	var files []model.AudioFile
	var failed []model.ScanFailedPath
	collectWg.Add(1)
	go func() {
		defer collectWg.Done()
		for o := range results {
			if o.fail != nil {
				failed = append(failed, *o.fail)
			} else {
				files = append(files, o.file)
			}
		}
	}()

	visit := func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil {
			results <- outcome{fail: &model.ScanFailedPath{Path: path, Err: err}}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !extensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		found.Add(1)
		select {
		case paths <- path:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	}

	var walkErr error
	if cfg.FollowSymlinks {
		walkErr = walkFollowingSymlinks(root, visit, map[string]bool{})
	} else {
		walkErr = filepath.WalkDir(root, visit)
	}

	close(paths)
	workers.Wait()
	close(results)
	collectWg.Wait()
	close(progressDone)

	duration := time.Since(startedAt)

	if walkErr != nil && walkErr != context.Canceled {
		return model.NewScanFailure(startedAt, duration, fmt.Errorf("%w: walking %s: %v", xerr.IO, root, walkErr), failed)
	}

	switch {
	case len(failed) == 0:
		return model.NewScanSuccess(startedAt, duration, files)
	case len(files) == 0:
		return model.NewScanFailure(startedAt, duration, nil, failed)
	default:
		return model.NewScanPartial(startedAt, duration, files, failed)
	}
}

// walkFollowingSymlinks is filepath.WalkDir's traversal with one change:
// a directory entry that is a symlink to a directory is resolved and
// descended into, guarded by visited (a canonical-path set) so a symlink
// cycle terminates instead of looping forever. A symlink to a regular file
// is visited like any other file; filepath.WalkDir already does that part
// without help since os.Stat (not Lstat) decides d.IsDir() here.
func walkFollowingSymlinks(root string, visit fs.WalkDirFunc, visited map[string]bool) error {
	real, err := filepath.EvalSymlinks(root)
	if err != nil {
		real = root
	}
	if visited[real] {
		return nil
	}
	visited[real] = true

	entries, err := os.ReadDir(root)
	if err != nil {
		return visit(root, nil, err)
	}

	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		d := entry
		if d.Type()&fs.ModeSymlink != 0 {
			info, statErr := os.Stat(path) // follows the link
			if statErr != nil {
				if err := visit(path, d, statErr); err != nil {
					return err
				}
				continue
			}
			if info.IsDir() {
				if err := walkFollowingSymlinks(path, visit, visited); err != nil {
					return err
				}
				continue
			}
		}
		if err := visit(path, d, nil); err != nil {
			return err
		}
		if d.IsDir() {
			if err := walkFollowingSymlinks(path, visit, visited); err != nil {
				return err
			}
		}
	}
	return nil
}

func extractOne(ctx context.Context, path string, hashContent bool) (model.AudioFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.AudioFile{}, fmt.Errorf("%w: stat %s: %v", xerr.IO, path, err)
	}

	m, err := meta.Extract(path)
	if err != nil {
		return model.AudioFile{}, fmt.Errorf("%w: %s: %v", xerr.ExtractionFailed, path, err)
	}

	digest := model.None[string]()
	if hashContent {
		if d, err := meta.ContentDigest(ctx, path); err == nil {
			digest = model.Some(d)
		}
	}

	return model.AudioFile{
		Path:      path,
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
		Metadata:  m,
		Digest:    digest,
	}, nil
}
