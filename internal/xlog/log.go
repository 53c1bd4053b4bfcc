// Package xlog is a leveled, colorized stderr logger in the teacher's
// style: package-level level/color state, timestamped lines, no structured
// fields. It is for operator-facing chrome; the audit trail that matters
// for replay lives in internal/progress's JSONL subscriber instead.
package xlog

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	currentLevel = LevelInfo
	useColors    = isatty.IsTerminal(os.Stderr.Fd())
)

func SetLevel(l Level)        { currentLevel = l }
func SetVerbose(verbose bool) { if verbose { currentLevel = LevelDebug } }
func SetQuiet(quiet bool)     { if quiet { currentLevel = LevelError } }
func SetColors(enabled bool)  { useColors = enabled }

func colorize(color, text string) string {
	if !useColors {
		return text
	}
	return color + text + "\033[0m"
}

func timestamp() string { return time.Now().Format("15:04:05") }

func Debug(format string, args ...interface{}) {
	if currentLevel <= LevelDebug {
		fmt.Fprintf(os.Stderr, "%s [DEBUG] %s\n", colorize("\033[90m", timestamp()), fmt.Sprintf(format, args...))
	}
}

func Info(format string, args ...interface{}) {
	if currentLevel <= LevelInfo {
		fmt.Fprintf(os.Stderr, "%s [INFO]  %s\n", colorize("\033[36m", timestamp()), fmt.Sprintf(format, args...))
	}
}

func Warn(format string, args ...interface{}) {
	if currentLevel <= LevelWarn {
		fmt.Fprintf(os.Stderr, "%s [WARN]  %s\n", colorize("\033[33m", timestamp()), fmt.Sprintf(format, args...))
	}
}

func Error(format string, args ...interface{}) {
	if currentLevel <= LevelError {
		fmt.Fprintf(os.Stderr, "%s [ERROR] %s\n", colorize("\033[31m", timestamp()), fmt.Sprintf(format, args...))
	}
}

func Success(format string, args ...interface{}) {
	if currentLevel <= LevelInfo {
		fmt.Fprintf(os.Stderr, "%s [OK]    %s\n", colorize("\033[32m", timestamp()), fmt.Sprintf(format, args...))
	}
}
