package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arvidsson/crateorganizer/internal/model"
	"github.com/arvidsson/crateorganizer/internal/progress"
	"github.com/arvidsson/crateorganizer/internal/scan"
	"github.com/arvidsson/crateorganizer/internal/xlog"
)

var (
	scanHashContent    bool
	scanFollowSymlinks bool
	scanExtraExts      []string
	scanOutFile        string
)

var scanCmd = &cobra.Command{
	Use:   "scan [root]",
	Short: "Walk a directory and extract audio metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanHashContent, "hash", true, "compute a SHA-256 content digest per file")
	scanCmd.Flags().BoolVar(&scanFollowSymlinks, "follow-symlinks", false, "follow directory symlinks during the walk")
	scanCmd.Flags().StringSliceVar(&scanExtraExts, "ext", nil, "additional file extensions to scan beyond the default set")
	scanCmd.Flags().StringVar(&scanOutFile, "out", "", "also write the scan result as JSON to this file (the summary is still logged)")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	root := args[0]

	bus, cleanup, err := wireBuses(progress.StageScan)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := scan.Config{
		AdditionalExtensions: scanExtraExts,
		Concurrency:          viper.GetInt("concurrency"),
		Bus:                  bus,
		HashContent:          scanHashContent,
		FollowSymlinks:       scanFollowSymlinks,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result := scan.Scan(ctx, root, cfg)
	reportScanResult(result)

	if scanOutFile != "" {
		if err := writeScanJSON(scanOutFile, result); err != nil {
			return fmt.Errorf("writing scan output: %w", err)
		}
	}

	if result.Variant() == model.ScanFailure {
		return fmt.Errorf("scan failed: %v", result.FailureCause())
	}
	return nil
}

func reportScanResult(result model.ScanResult) {
	switch result.Variant() {
	case model.ScanSuccess:
		xlog.Success("scanned %d files in %s", len(result.Files()), result.Duration().Round(time.Millisecond))
	case model.ScanPartial:
		xlog.Warn("scanned %d files, %d failed (%.1f%% success) in %s",
			len(result.Files()), len(result.Failed()), result.SuccessRate()*100, result.Duration().Round(time.Millisecond))
		for _, f := range result.Failed() {
			xlog.Debug("  %s: %v", f.Path, f.Err)
		}
	case model.ScanFailure:
		xlog.Error("scan failed after %s: %v", result.Duration().Round(time.Millisecond), result.FailureCause())
	}
}

// scanJSON is the on-disk shape for --out, independent of ScanResult's
// closed-sum internal layout so callers don't need the accessor methods.
type scanJSON struct {
	Variant  string            `json:"variant"`
	Files    []model.AudioFile `json:"files"`
	Failed   []failedJSON      `json:"failed,omitempty"`
	Duration string            `json:"duration"`
}

type failedJSON struct {
	Path string `json:"path"`
	Err  string `json:"err"`
}

func writeScanJSON(path string, result model.ScanResult) error {
	out := scanJSON{
		Files:    result.Files(),
		Duration: result.Duration().String(),
	}
	switch result.Variant() {
	case model.ScanSuccess:
		out.Variant = "success"
	case model.ScanPartial:
		out.Variant = "partial"
	case model.ScanFailure:
		out.Variant = "failure"
	}
	for _, f := range result.Failed() {
		out.Failed = append(out.Failed, failedJSON{Path: f.Path, Err: f.Err.Error()})
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
