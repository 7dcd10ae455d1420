package processor

import (
	"fmt"
	"runtime/debug"
	"time"

	"thumbnailer/imageprocessor"
	"thumbnailer/logging"
	"thumbnailer/types"
)

// Transformer turns one job into one thumbnail
type Transformer interface {
	Process(job types.Job) (types.Thumbnail, error)
}

// CameraReader reads camera metadata for a source file
type CameraReader interface {
	ReadCamera(path string) (imageprocessor.CameraInfo, error)
}

// ImageProcessor is an adapter between the worker pool and the
// imageprocessor package. It turns every job into exactly one Outcome.
type ImageProcessor struct {
	DebugMode   bool
	transformer Transformer
	exif        CameraReader
}

// NewImageProcessor creates an ImageProcessor. exif may be nil.
func NewImageProcessor(transformer Transformer, exif CameraReader, debugMode bool) *ImageProcessor {
	return &ImageProcessor{
		DebugMode:   debugMode,
		transformer: transformer,
		exif:        exif,
	}
}

// ProcessJob runs the transform for job. Errors and panics become a
// failed Outcome and never escape to the caller.
func (p *ImageProcessor) ProcessJob(job types.Job) (outcome types.Outcome) {
	start := time.Now()
	outcome.Job = job

	// Use defer to recover from any panics inside decoders or encoders
	defer func() {
		if r := recover(); r != nil {
			stackTrace := debug.Stack()
			outcome.Err = fmt.Errorf("panic during processing: %v", r)
			logging.LogError("Panic during processing: %v, file: %s\nStack trace: %s", r, job.SourcePath, string(stackTrace))
		}
		outcome.Duration = time.Since(start)
	}()

	thumb, err := p.transformer.Process(job)
	outcome.Thumbnail = thumb
	if err != nil {
		outcome.Err = err
		return outcome
	}

	if p.exif != nil {
		info, err := p.exif.ReadCamera(job.SourcePath)
		if err != nil {
			if p.DebugMode {
				logging.DebugLog("No metadata for %s: %v", job.SourcePath, err)
			}
		} else {
			outcome.Thumbnail.Camera = info.Camera
			outcome.Thumbnail.TakenAt = info.TakenAt
		}
	}

	if p.DebugMode {
		logging.DebugLog("Thumbnail %s -> %s (%dx%d)", job.SourcePath, thumb.DestPath, thumb.Width, thumb.Height)
	}

	return outcome
}
