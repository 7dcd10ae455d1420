package scanner

import (
	"fmt"
	"io"
	"os"
	"sort"

	"thumbnailer/imageprocessor"
	"thumbnailer/logging"
	"thumbnailer/scanner/processor"
	"thumbnailer/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ThumbnailFolder discovers every image under the input root, writes a
// thumbnail for each on a worker pool and prints the summary line. Per-file
// failures are reported on Stderr and never make it return an error; only
// invalid options or an unwalkable input root do.
func ThumbnailFolder(options ScanOptions) (types.RunSummary, error) {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	stdout, stderr := options.Stdout, options.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	runID := options.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger = logger.With(zap.String("run_id", runID))

	thumbnailer, err := imageprocessor.NewThumbnailer(options.Thumbnail, logger)
	if err != nil {
		return types.RunSummary{}, err
	}
	opts := thumbnailer.Options()

	// Keep a nested output root from being fed back in on the next run
	var exclude []string
	if dir, ok := nestedExclude(opts.InputRoot, opts.OutputRoot); ok {
		exclude = append(exclude, dir)
	}

	files, err := Discover(opts.InputRoot, exclude...)
	if err != nil {
		return types.RunSummary{}, fmt.Errorf("cannot walk %s: %w", opts.InputRoot, err)
	}

	collisions := FindCollisions(files, thumbnailer.DestinationPath)
	for _, c := range collisions {
		logger.Warn("sources share a thumbnail path; last writer wins",
			zap.String("dest", c.Dest),
			zap.Strings("sources", c.Sources),
		)
	}

	jobs := make([]types.Job, len(files))
	for i, f := range files {
		jobs[i] = types.Job{SourcePath: f}
	}

	pool := NewWorkerPool(options.Workers)
	proc := processor.NewImageProcessor(thumbnailer, options.Metadata, options.DebugMode)

	var display io.Writer
	if options.Progress {
		display = stderr
	}
	results := make(chan types.Outcome, pool.Size())
	tracker := NewProgressTracker(len(jobs), results, NewWriterSink(stderr), options.Recorder, display)
	reporter := NewReporter(stdout, options.Benchmark)

	printStartupInfo(logger, len(jobs), pool.Size(), opts, exclude)

	reporter.Start()
	pool.Run(jobs, proc.ProcessJob, results)
	close(results)
	tracker.Wait()

	_, failed := tracker.Counts()
	summary := reporter.Finish(len(jobs), failed, len(collisions))
	summary.RunID = runID

	printCompletionStats(logger, tracker, summary)
	return summary, nil
}

// printStartupInfo logs information about the run before starting
func printStartupInfo(logger *zap.Logger, total, workers int, opts imageprocessor.ThumbnailOptions, exclude []string) {
	logger.Info("starting thumbnail run",
		zap.String("input", opts.InputRoot),
		zap.String("output", opts.OutputRoot),
		zap.Int("files", total),
		zap.Int("workers", workers),
		zap.String("format", string(opts.Format)),
		zap.Int("width", opts.Width),
		zap.Int("height", opts.Height),
		zap.Int("quality", opts.Quality),
	)
	if len(exclude) > 0 {
		logging.DebugLog("Excluding output root %s from discovery", exclude[0])
	}
}

// printCompletionStats logs statistics after the run
func printCompletionStats(logger *zap.Logger, tracker *ProgressTracker, summary types.RunSummary) {
	counts := tracker.FormatCounts()
	formats := make([]string, 0, len(counts))
	for f := range counts {
		formats = append(formats, string(f))
	}
	sort.Strings(formats)

	fields := []zap.Field{
		zap.Int("total", summary.Total),
		zap.Int("failed", summary.Failed),
		zap.Int("collisions", summary.Collisions),
		zap.Duration("elapsed", summary.Elapsed),
	}
	for _, f := range formats {
		s := counts[imageprocessor.FormatType(f)]
		fields = append(fields, zap.String("format_"+f, fmt.Sprintf("%d/%d", s.Processed-s.Failed, s.Processed)))
	}
	logger.Info("thumbnail run complete", fields...)
}
