package scanner

import (
	"fmt"
	"io"
	"time"

	"thumbnailer/imageprocessor"
	"thumbnailer/logging"
	"thumbnailer/types"
)

const progressInterval = 500 * time.Millisecond

// NewProgressTracker starts consuming results. Failures go to sink as they
// arrive and every outcome goes to recorder when one is set. A non-nil
// display gets a progress line redrawn every 500ms.
func NewProgressTracker(totalFiles int, results <-chan types.Outcome, sink ErrorSink, recorder OutcomeRecorder, display io.Writer) *ProgressTracker {
	tracker := &ProgressTracker{
		totalFiles: totalFiles,
		byFormat:   make(map[imageprocessor.FormatType]*FormatStats),
		sink:       sink,
		recorder:   recorder,
		display:    display,
		done:       make(chan struct{}),
		drained:    make(chan struct{}),
	}

	// Start progress display goroutine
	if display != nil {
		tracker.ticker = time.NewTicker(progressInterval)
		go tracker.displayProgress()
	}

	// Start result processor goroutine
	go tracker.processResults(results)

	return tracker
}

// displayProgress shows the progress periodically
func (p *ProgressTracker) displayProgress() {
	for {
		select {
		case <-p.done:
			return
		case <-p.ticker.C:
			p.mu.Lock()
			p.drawLine()
			p.mu.Unlock()
		}
	}
}

// drawLine must be called with p.mu held
func (p *ProgressTracker) drawLine() {
	if p.errors > 0 {
		fmt.Fprintf(p.display, "\rProgress: %d/%d (Errors: %d)", p.processed, p.totalFiles, p.errors)
	} else {
		fmt.Fprintf(p.display, "\rProgress: %d/%d", p.processed, p.totalFiles)
	}
	p.lineDrawn = true
}

// endLine terminates a drawn progress line so the next write starts clean.
// Must be called with p.mu held.
func (p *ProgressTracker) endLine() {
	if p.lineDrawn {
		fmt.Fprintln(p.display)
		p.lineDrawn = false
	}
}

// processResults updates the tracker state based on processing results
func (p *ProgressTracker) processResults(results <-chan types.Outcome) {
	defer close(p.drained)

	for result := range results {
		p.mu.Lock()
		p.processed++

		format := imageprocessor.GetFileFormat(result.Job.SourcePath)
		stats, ok := p.byFormat[format]
		if !ok {
			stats = &FormatStats{}
			p.byFormat[format] = stats
		}
		stats.Processed++

		if !result.Success() {
			p.errors++
			stats.Failed++
			p.endLine()
			if p.sink != nil {
				p.sink.Report(result.Job.SourcePath, result.Err)
			}
			logging.LogImageProcessed(result.Job.SourcePath, false, result.Err.Error())
		} else {
			logging.LogImageProcessed(result.Job.SourcePath, true, "")
		}
		p.mu.Unlock()

		recordOutcome(p.recorder, result)
	}
}

// Wait blocks until the results channel is closed and drained, then stops
// the display. The caller must close the channel.
func (p *ProgressTracker) Wait() {
	<-p.drained
	if p.ticker == nil {
		return
	}
	p.ticker.Stop()
	close(p.done)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lineDrawn {
		p.drawLine()
		p.endLine()
	}
}

// Counts returns the number of outcomes seen and how many failed
func (p *ProgressTracker) Counts() (processed, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.processed, p.errors
}

// FormatCounts returns a snapshot of the per-format counters
func (p *ProgressTracker) FormatCounts() map[imageprocessor.FormatType]FormatStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[imageprocessor.FormatType]FormatStats, len(p.byFormat))
	for f, s := range p.byFormat {
		out[f] = *s
	}
	return out
}
