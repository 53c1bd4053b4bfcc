package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arvidsson/crateorganizer/internal/model"
	"github.com/arvidsson/crateorganizer/internal/pattern"
	"github.com/arvidsson/crateorganizer/internal/progress"
	"github.com/arvidsson/crateorganizer/internal/relocate"
	"github.com/arvidsson/crateorganizer/internal/scan"
	"github.com/arvidsson/crateorganizer/internal/xlog"
)

var (
	organizeTemplate        string
	organizeCreateParents   bool
	organizePreserveOnError bool
	organizeRollbackEnabled bool
	organizeAtomicMove      bool
	organizeReplaceExisting bool
	organizeRollbackFile    string
)

var organizeCmd = &cobra.Command{
	Use:   "organize [root] [destination]",
	Short: "Scan root and relocate every file into destination per a path template",
	Args:  cobra.ExactArgs(2),
	RunE:  runOrganize,
}

func init() {
	organizeCmd.Flags().StringVar(&organizeTemplate, "pattern", pattern.Standard,
		"destination path template; also accepts the preset names standard/with-year/classical/genre/flat/compilation")
	organizeCmd.Flags().BoolVar(&organizeCreateParents, "create-parents", true, "create destination parent directories as needed")
	organizeCmd.Flags().BoolVar(&organizePreserveOnError, "preserve-on-error", true, "leave the source in place when its own move fails")
	organizeCmd.Flags().BoolVar(&organizeRollbackEnabled, "rollback", true, "back up any file a move would overwrite, so it can be restored later")
	organizeCmd.Flags().BoolVar(&organizeAtomicMove, "atomic", true, "prefer rename() over copy+delete when source and destination share a filesystem")
	organizeCmd.Flags().BoolVar(&organizeReplaceExisting, "replace-existing", false, "allow a move to overwrite an existing destination file")
	organizeCmd.Flags().StringVar(&organizeRollbackFile, "rollback-file", "", "path to persist the rollback table to (default <destination>/.crateorganizer-rollback.json)")
	rootCmd.AddCommand(organizeCmd)
}

func presetTemplate(name string) string {
	switch name {
	case "standard":
		return pattern.Standard
	case "with-year":
		return pattern.WithYear
	case "classical":
		return pattern.Classical
	case "genre":
		return pattern.GenreBased
	case "flat":
		return pattern.Flat
	case "compilation":
		return pattern.Compilation
	default:
		return name
	}
}

func runOrganize(cmd *cobra.Command, args []string) error {
	root, dest := args[0], args[1]

	scanBus, scanCleanup, err := wireBuses(progress.StageScan)
	if err != nil {
		return err
	}
	defer scanCleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scanResult := scan.Scan(ctx, root, scan.Config{
		Concurrency: viper.GetInt("concurrency"),
		Bus:         scanBus,
		HashContent: false,
	})
	reportScanResult(scanResult)
	if scanResult.Variant() == model.ScanFailure {
		return fmt.Errorf("scan failed: %v", scanResult.FailureCause())
	}

	tmpl, err := pattern.Parse(presetTemplate(organizeTemplate))
	if err != nil {
		return fmt.Errorf("parsing pattern: %w", err)
	}

	items := make(map[string]model.Metadata, len(scanResult.Files()))
	for _, f := range scanResult.Files() {
		items[f.Path] = f.Metadata
	}

	plan := model.RelocationPlan{
		Items:           items,
		TargetRoot:      dest,
		Template:        tmpl,
		CreateParents:   organizeCreateParents,
		PreserveOnError: organizePreserveOnError,
		RollbackEnabled: organizeRollbackEnabled,
		AtomicMove:      organizeAtomicMove,
		ReplaceExisting: organizeReplaceExisting,
	}

	relocateBus, relocateCleanup, err := wireBuses(progress.StageRelocate)
	if err != nil {
		return err
	}
	defer relocateCleanup()

	result := relocate.Relocate(ctx, plan, relocate.Config{
		Concurrency: viper.GetInt("concurrency"),
		Bus:         relocateBus,
		EventFn: func(ev model.RelocationEvent) {
			if ev.Kind == model.EventError {
				xlog.Warn("%s: %v", ev.SourcePath, ev.Err)
			}
		},
	})

	xlog.Success("moved %d files (%s), %d failed", len(result.Succeeded), humanize.Bytes(uint64(result.BytesMoved)), len(result.Failed))
	for src, err := range result.Failed {
		xlog.Error("%s: %v", src, err)
	}

	if len(result.RollbackTable) > 0 {
		rollbackPath := organizeRollbackFile
		if rollbackPath == "" {
			rollbackPath = filepath.Join(dest, ".crateorganizer-rollback.json")
		}
		if err := relocate.SaveRollbackTable(rollbackPath, result.SessionID, result.RollbackTable); err != nil {
			xlog.Warn("failed to persist rollback table: %v", err)
		} else {
			xlog.Info("rollback table with %d pending entries written to %s", len(result.RollbackTable), rollbackPath)
		}
	}

	if len(result.Failed) > 0 {
		return fmt.Errorf("%d files failed to relocate", len(result.Failed))
	}
	return nil
}
