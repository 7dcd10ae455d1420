package scanner

import (
	"io"
	"sync"
	"time"

	"thumbnailer/imageprocessor"
	"thumbnailer/scanner/processor"

	"go.uber.org/zap"
)

// ScanOptions defines the options for one thumbnail run
type ScanOptions struct {
	Thumbnail imageprocessor.ThumbnailOptions
	Workers   int // 0 means signalhandler.DefaultWorkers
	Benchmark bool
	Progress  bool
	DebugMode bool
	RunID     string // generated when empty

	Stdout io.Writer
	Stderr io.Writer

	// Optional collaborators
	Recorder OutcomeRecorder
	Metadata processor.CameraReader
	Logger   *zap.Logger
}

// FormatStats counts outcomes for one input format
type FormatStats struct {
	Processed int
	Failed    int
}

// ProgressTracker is the single consumer of the outcome channel
type ProgressTracker struct {
	processed  int
	errors     int
	totalFiles int
	byFormat   map[imageprocessor.FormatType]*FormatStats

	sink     ErrorSink
	recorder OutcomeRecorder

	display   io.Writer
	lineDrawn bool
	ticker    *time.Ticker
	done      chan struct{}
	drained   chan struct{}
	mu        sync.Mutex
}
