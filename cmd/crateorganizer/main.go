package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arvidsson/crateorganizer/internal/xlog"
)

var (
	// Version is set at build time.
	Version = "dev"

	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "crateorganizer",
		Short: "Organize a messy audio archive into a clean, deduplicated library",
		Long: `crateorganizer scans a directory of audio files, extracts metadata, finds
duplicates, validates the collection, and relocates files into a templated
destination layout — deterministically, with a rollback path
for anything it moved.`,
		Version: Version,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./configs/crateorganizer.yaml)")
	rootCmd.PersistentFlags().Int("concurrency", 4, "worker pool size for scanning and relocating")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "quiet output (errors only)")
	rootCmd.PersistentFlags().String("events", "", "directory to write a JSONL progress audit trail into")

	viper.BindPFlag("concurrency", rootCmd.PersistentFlags().Lookup("concurrency"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	viper.BindPFlag("events", rootCmd.PersistentFlags().Lookup("events"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.SetConfigName("crateorganizer")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("CRATEORGANIZER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		xlog.Debug("using config file: %s", viper.ConfigFileUsed())
	}

	xlog.SetVerbose(viper.GetBool("verbose"))
	xlog.SetQuiet(viper.GetBool("quiet"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
