package main

import (
	"github.com/spf13/viper"

	"github.com/arvidsson/crateorganizer/internal/progress"
)

// wireBuses builds the progress bus every subcommand reports through: a TTY
// bar when stderr is a terminal and not --quiet, fanned out with a JSONL
// bus when --events points at a directory. cleanup flushes and closes
// whatever was opened; it is always safe to call.
func wireBuses(stage progress.Stage) (progress.Bus, func(), error) {
	var buses progress.Multi

	tty := progress.NewTTYBus(stage, viper.GetBool("quiet"))
	if tty != nil {
		buses = append(buses, tty)
	}

	var jsonl *progress.JSONLBus
	if dir := viper.GetString("events"); dir != "" {
		var err error
		jsonl, err = progress.NewJSONLBus(dir)
		if err != nil {
			return nil, func() {}, err
		}
		buses = append(buses, jsonl)
	}

	cleanup := func() {
		tty.Finish()
		jsonl.Close()
	}

	if len(buses) == 0 {
		return nil, cleanup, nil
	}
	return buses, cleanup, nil
}
