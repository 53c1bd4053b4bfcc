package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arvidsson/crateorganizer/internal/dedup"
	"github.com/arvidsson/crateorganizer/internal/model"
	"github.com/arvidsson/crateorganizer/internal/progress"
	"github.com/arvidsson/crateorganizer/internal/scan"
	"github.com/arvidsson/crateorganizer/internal/validate"
	"github.com/arvidsson/crateorganizer/internal/xlog"
)

var (
	validateStrict        bool
	validateMinBitrateKbps int
)

var validateCmd = &cobra.Command{
	Use:   "validate [root]",
	Short: "Scan a directory and report collection health issues",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "promote missing-core-tag findings from Warning to Error")
	validateCmd.Flags().IntVar(&validateMinBitrateKbps, "min-bitrate", 128, "flag lossy files below this bitrate")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
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

	validateBus, validateCleanup, err := wireBuses(progress.StageValidate)
	if err != nil {
		return err
	}
	defer validateCleanup()

	cfg := validate.Config{
		CheckIntegrity:        true,
		ValidateMetadata:      true,
		StrictMode:            validateStrict,
		DetectIncompleteAlbums: true,
		FindDuplicates:        true,
		ValidateCoverArt:      true,
		SupportedFormats:      nil,
		MinBitrateKbps:        validateMinBitrateKbps,
		Dedup: dedup.Config{
			MetadataEnabled:     true,
			SimilarityThreshold: 0.85,
			SizeThresholdBytes:  1 << 20,
		},
		Bus: validateBus,
	}

	report := validate.Validate(result.Files(), cfg)
	printValidationReport(report)
	return nil
}

func printValidationReport(r model.ValidationReport) {
	var critical, errCount, warn, info int
	for _, iss := range r.Issues {
		switch iss.Severity {
		case model.SeverityCritical:
			critical++
		case model.SeverityError:
			errCount++
		case model.SeverityWarning:
			warn++
		case model.SeverityInfo:
			info++
		}
	}
	xlog.Info("%d issues: %d critical, %d error, %d warning, %d info across %d albums",
		len(r.Issues), critical, errCount, warn, info, len(r.Completeness))

	for _, iss := range r.Issues {
		fmt.Printf("[%s] %s: %s\n", iss.Severity, iss.Kind, iss.Path)
		if iss.Message != "" {
			fmt.Printf("    %s\n", iss.Message)
		}
		if iss.Remediation != "" {
			fmt.Printf("    fix: %s\n", iss.Remediation)
		}
	}

	for _, ac := range r.Completeness {
		if ac.Complete {
			continue
		}
		fmt.Printf("incomplete album %s / %s: missing tracks %v\n", ac.Artist, ac.Album, ac.Missing)
	}
}
