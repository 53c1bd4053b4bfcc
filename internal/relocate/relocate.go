// Package relocate moves audio files into a templated target layout: one
// session evaluates every item's destination, rejects path collisions up
// front, then relocates each surviving item on a bounded worker pool with
// backup-before-overwrite and session-scoped rollback, the same producer/
// worker-pool shape as internal/scan generalized from extraction to moves.
package relocate

import (
	"context"
	"fmt"
	"sync"

	"github.com/arvidsson/crateorganizer/internal/model"
	"github.com/arvidsson/crateorganizer/internal/pattern"
	"github.com/arvidsson/crateorganizer/internal/progress"
	"github.com/arvidsson/crateorganizer/internal/util"
	"github.com/arvidsson/crateorganizer/internal/xerr"
)

// Config controls one Relocate call.
type Config struct {
	Concurrency   int
	Bus           progress.Bus
	EventFn       func(model.RelocationEvent) // optional per-event observer
	RetryConfig   *util.RetryConfig           // defaults to util.DefaultRetryConfig() when nil
	CaseSensitive *bool                       // nil: auto-detect from plan.TargetRoot
}

func (c Config) emit(ev model.RelocationEvent) {
	if c.EventFn != nil {
		c.EventFn(ev)
	}
}

// Relocate evaluates plan.Template against every item, rejects colliding
// targets, and moves the rest concurrently. RollbackTable in the result
// reflects every backup still pending at return — empty on full success.
func Relocate(ctx context.Context, plan model.RelocationPlan, cfg Config) model.RelocationResult {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	retryCfg := cfg.RetryConfig
	if retryCfg == nil {
		retryCfg = util.DefaultRetryConfig()
	}

	result := model.RelocationResult{Failed: make(map[string]error)}

	progress.Report(cfg.Bus, progress.Event{Stage: progress.StagePattern, Total: int64(len(plan.Items))})
	targets, evalErrs := evaluateTargets(plan, cfg)
	progress.Report(cfg.Bus, progress.Event{Stage: progress.StagePattern, Processed: int64(len(targets)), Total: int64(len(plan.Items))})
	for src, err := range evalErrs {
		result.Failed[src] = err
	}

	caseSensitive := true
	if cfg.CaseSensitive != nil {
		caseSensitive = *cfg.CaseSensitive
	} else if sensitive, err := util.DetectFilesystemCaseSensitivity(plan.TargetRoot); err == nil {
		caseSensitive = sensitive
	}

	surviving, collisionErrs := detectCollisions(targets, caseSensitive)
	for src, err := range collisionErrs {
		result.Failed[src] = err
		cfg.emit(model.RelocationEvent{Kind: model.EventError, SourcePath: src, Err: err})
	}

	session := NewSession()

	type item struct {
		src, dest string
	}
	items := make(chan item, len(surviving))
	for src, dest := range surviving {
		items <- item{src: src, dest: dest}
	}
	close(items)

	type outcome struct {
		src   string
		bytes int64
		err   error
	}
	outcomes := make(chan outcome, len(surviving))

	total := int64(len(surviving))
	var processed int64
	var mu sync.Mutex // guards processed read-modify-report below

	var workers sync.WaitGroup
	for i := 0; i < cfg.Concurrency; i++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			for it := range items {
				select {
				case <-ctx.Done():
					outcomes <- outcome{src: it.src, err: fmt.Errorf("%w: %v", xerr.Cancelled, ctx.Err())}
					continue
				default:
				}

				n, err := moveOne(ctx, it.src, it.dest, plan, session, retryCfg)
				outcomes <- outcome{src: it.src, bytes: n, err: err}

				mu.Lock()
				processed++
				p := processed
				mu.Unlock()
				progress.Report(cfg.Bus, progress.Event{
					Stage: progress.StageRelocate, SrcPath: it.src, DestPath: it.dest,
					Processed: p, Total: total, Err: err,
				})
				if err != nil {
					cfg.emit(model.RelocationEvent{Kind: model.EventError, SourcePath: it.src, TargetPath: it.dest, Err: err})
				} else {
					cfg.emit(model.RelocationEvent{Kind: model.EventFileOrganized, SourcePath: it.src, TargetPath: it.dest})
				}
			}
		}()
	}
	workers.Wait()
	close(outcomes)

	for o := range outcomes {
		if o.err != nil {
			result.Failed[o.src] = o.err
			continue
		}
		result.Succeeded = append(result.Succeeded, o.src)
		result.BytesMoved += o.bytes
	}

	result.SessionID = session.ID
	result.RollbackTable = session.Snapshot()
	return result
}

// evaluateTargets runs the template against every item's metadata, emitting
// an EventPatternEvaluated notification per success.
func evaluateTargets(plan model.RelocationPlan, cfg Config) (map[string]string, map[string]error) {
	targets := make(map[string]string, len(plan.Items))
	failed := make(map[string]error)

	for src, m := range plan.Items {
		segments, err := pattern.Evaluate(plan.Template, model.PatternContext{
			Metadata:   m,
			SourcePath: src,
		})
		if err != nil {
			failed[src] = fmt.Errorf("%w: evaluating pattern for %s: %v", xerr.Parse, src, err)
			cfg.emit(model.RelocationEvent{Kind: model.EventError, SourcePath: src, Err: failed[src]})
			continue
		}

		dest := joinUnderRoot(plan.TargetRoot, segments)
		targets[src] = dest
		cfg.emit(model.RelocationEvent{Kind: model.EventPatternEvaluated, SourcePath: src, TargetPath: dest})
	}

	return targets, failed
}
