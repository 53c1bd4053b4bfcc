package progress

import (
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// TTYBus renders an indeterminate progressbar/v3 bar to stderr, throttled
// the way the teacher's scanner throttles its own bar. It is safe to
// construct unconditionally; NewTTYBus returns nil when stderr isn't a
// terminal or the caller asked for quiet output, and a nil *TTYBus is a
// no-op Bus (nil-receiver methods below), so callers never need an is-TTY
// branch of their own.
type TTYBus struct {
	bar   *progressbar.ProgressBar
	stage Stage
}

// NewTTYBus returns a TTYBus for stage, or nil if output shouldn't be
// rendered (not a terminal, or quiet requested).
func NewTTYBus(stage Stage, quiet bool) *TTYBus {
	if quiet || !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(string(stage)),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionThrottle(200*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &TTYBus{bar: bar, stage: stage}
}

func (t *TTYBus) Report(ev Event) {
	if t == nil || t.bar == nil {
		return
	}
	if ev.Message != "" {
		t.bar.Describe(string(t.stage) + ": " + ev.Message)
	}
	if ev.Total > 0 {
		t.bar.ChangeMax64(ev.Total)
	}
	t.bar.Set64(ev.Processed)
}

// Finish clears the bar and prints nothing further; safe on a nil receiver.
func (t *TTYBus) Finish() {
	if t == nil || t.bar == nil {
		return
	}
	t.bar.Finish()
}
