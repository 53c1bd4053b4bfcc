package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arvidsson/crateorganizer/internal/relocate"
	"github.com/arvidsson/crateorganizer/internal/xlog"
)

var rollbackCmd = &cobra.Command{
	Use:   "rollback [rollback-file]",
	Short: "Restore files an earlier organize call backed up before overwriting",
	Args:  cobra.ExactArgs(1),
	RunE:  runRollback,
}

func init() {
	rootCmd.AddCommand(rollbackCmd)
}

func runRollback(cmd *cobra.Command, args []string) error {
	path := args[0]

	sessionID, table, err := relocate.LoadRollbackTable(path)
	if err != nil {
		return fmt.Errorf("loading rollback file: %w", err)
	}
	if len(table) == 0 {
		xlog.Info("nothing to roll back in %s", path)
		return nil
	}

	session := relocate.NewSessionFromTable(sessionID, table)
	result := session.RollbackAll(context.Background())

	xlog.Success("restored %d of %d backed-up files", result.Recovered, len(table))
	for target, err := range result.Errors {
		xlog.Error("%s: %v", target, err)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%d entries failed to restore", len(result.Errors))
	}
	return nil
}
