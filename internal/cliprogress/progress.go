// Package cliprogress wraps schollz/progressbar/v3 for row-throughput
// reporting, adapted from boldkit/cmd/progress.go's progress/newProgress
// pair: total is a row count instead of a record count, and Add takes a
// row delta instead of always incrementing by one. cmd/flfconv calls Add
// once, with the run's total row count, after the run has finished; the
// bar is not updated while the pipeline is running.
package cliprogress

import (
	"log"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Tracker reports row throughput to stderr; a Tracker with a nil bar is a
// silent no-op, selected by passing enabled == false to New.
type Tracker struct {
	bar *progressbar.ProgressBar
}

// New creates a Tracker for totalRows rows (0 for an unknown total,
// rendered as a spinner instead of a bar). enabled == false returns a
// no-op Tracker.
func New(totalRows int64, enabled bool) *Tracker {
	if !enabled {
		return &Tracker{}
	}

	opts := []progressbar.Option{
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionThrottle(250 * time.Millisecond),
		progressbar.OptionClearOnFinish(),
	}

	var bar *progressbar.ProgressBar
	if totalRows > 0 {
		opts = append(opts,
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetPredictTime(true),
		)
		bar = progressbar.NewOptions64(totalRows, opts...)
	} else {
		opts = append(opts,
			progressbar.OptionSpinnerType(14),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
		)
		bar = progressbar.NewOptions64(-1, opts...)
	}

	return &Tracker{bar: bar}
}

// Add reports that n more rows were processed.
func (t *Tracker) Add(n int64) {
	if t.bar == nil {
		return
	}
	_ = t.bar.Add64(n)
}

// Finish marks the tracker complete and clears the bar.
func (t *Tracker) Finish() {
	if t.bar == nil {
		return
	}
	_ = t.bar.Finish()
}

// Warnf logs a warning to stderr. No third-party logger is imported
// anywhere in the pack this tool is grounded on, so warnings use the
// standard library logger, matching the teacher's own use of plain
// fmt.Errorf/log-free error returns throughout boldkit/cmd.
func Warnf(format string, args ...any) {
	log.Printf("warning: "+format, args...)
}
