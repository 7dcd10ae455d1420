package scanner

import (
	"fmt"
	"io"
	"time"

	"thumbnailer/types"
)

// Reporter times a run and prints its one-line summary
type Reporter struct {
	out       io.Writer
	benchmark bool
	now       func() time.Time
	started   time.Time
}

// NewReporter creates a Reporter printing to out
func NewReporter(out io.Writer, benchmark bool) *Reporter {
	return &Reporter{out: out, benchmark: benchmark, now: time.Now}
}

// Start records the start timestamp. Call it before dispatching jobs.
func (r *Reporter) Start() {
	r.started = r.now()
}

// Finish records the end timestamp and prints the summary line. total is
// the number of files discovered, not the number that succeeded.
func (r *Reporter) Finish(total, failed, collisions int) types.RunSummary {
	finished := r.now()
	summary := types.RunSummary{
		Total:      total,
		Failed:     failed,
		Collisions: collisions,
		StartedAt:  r.started,
		FinishedAt: finished,
		Elapsed:    finished.Sub(r.started),
	}
	fmt.Fprintln(r.out, FormatSummary(total, summary.Elapsed, r.benchmark))
	return summary
}

// FormatSummary renders the summary line. Benchmark mode adds the elapsed
// time in milliseconds with microsecond precision.
func FormatSummary(total int, elapsed time.Duration, benchmark bool) string {
	if !benchmark {
		return fmt.Sprintf("Processed %d files", total)
	}
	ms := float64(elapsed) / float64(time.Millisecond)
	return fmt.Sprintf("Processed %d files in %.3fms", total, ms)
}
