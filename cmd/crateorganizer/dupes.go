package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arvidsson/crateorganizer/internal/dedup"
	"github.com/arvidsson/crateorganizer/internal/progress"
	"github.com/arvidsson/crateorganizer/internal/scan"
	"github.com/arvidsson/crateorganizer/internal/xlog"
)

var (
	dupesMetadataMatch bool
	dupesSimilarity     float64
	dupesSizeThreshold  int64
)

var dupesCmd = &cobra.Command{
	Use:   "dupes [root]",
	Short: "Scan a directory and report duplicate audio files",
	Args:  cobra.ExactArgs(1),
	RunE:  runDupes,
}

func init() {
	dupesCmd.Flags().BoolVar(&dupesMetadataMatch, "metadata-match", true, "enable the metadata-similarity detector")
	dupesCmd.Flags().Float64Var(&dupesSimilarity, "similarity", 0.85, "metadata-match similarity threshold in [0,1]")
	dupesCmd.Flags().Int64Var(&dupesSizeThreshold, "size-threshold", 1<<20, "minimum file size in bytes for the coincidental-size detector")
	rootCmd.AddCommand(dupesCmd)
}

func runDupes(cmd *cobra.Command, args []string) error {
	root := args[0]

	scanBus, scanCleanup, err := wireBuses(progress.StageScan)
	if err != nil {
		return err
	}
	defer scanCleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result := scan.Scan(ctx, root, scan.Config{
		Concurrency: viper.GetInt("concurrency"),
		Bus:         scanBus,
		HashContent: true,
	})
	reportScanResult(result)

	dedupBus, dedupCleanup, err := wireBuses(progress.StageDedup)
	if err != nil {
		return err
	}
	defer dedupCleanup()

	report := dedup.Analyze(result.Files(), dedup.Config{
		MetadataEnabled:     dupesMetadataMatch,
		SimilarityThreshold: dupesSimilarity,
		SizeThresholdBytes:  dupesSizeThreshold,
		Bus:                 dedupBus,
	})

	printDupeReport(report)
	return nil
}

func printDupeReport(r dedup.Report) {
	xlog.Info("analyzed %d files: %d duplicates across %d groups, %s wasted",
		r.Stats.TotalFilesAnalyzed, r.Stats.TotalDuplicateFiles, len(r.Groups), humanize.Bytes(uint64(r.Stats.TotalWastedSpace)))

	for _, g := range r.Groups {
		keeper := dedup.SuggestKeeper(g.Members)
		fmt.Printf("[%s] %s (%d members, %s wasted) — keep %s\n", g.Tag, g.GroupKey, len(g.Members), humanize.Bytes(uint64(g.WastedSpace)), keeper.Path)
		for _, m := range g.Members {
			marker := " "
			if m.Path == keeper.Path {
				marker = "*"
			}
			fmt.Printf("  %s %s\n", marker, m.Path)
		}
	}
}
