package types

import "time"

// Job is one discovered source file submitted to the worker pool
type Job struct {
	SourcePath string `json:"source_path"`
}

// Thumbnail describes a successfully written thumbnail
type Thumbnail struct {
	SourcePath string `json:"source_path"`
	DestPath   string `json:"dest_path"`
	SrcWidth   int    `json:"src_width"`
	SrcHeight  int    `json:"src_height"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Size       int64  `json:"size"`
	Camera     string `json:"camera,omitempty"`
	TakenAt    string `json:"taken_at,omitempty"`
}

// Outcome holds the result of processing a single job
type Outcome struct {
	Job       Job
	Thumbnail Thumbnail
	Err       error
	Duration  time.Duration
}

// Success reports whether the job produced a thumbnail
func (o Outcome) Success() bool {
	return o.Err == nil
}

// RunSummary is computed once at the end of a run
type RunSummary struct {
	RunID      string        `json:"run_id"`
	Total      int           `json:"total"`
	Failed     int           `json:"failed"`
	Collisions int           `json:"collisions"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Elapsed    time.Duration `json:"elapsed"`
}

// RunRecord is the manifest row describing one run
type RunRecord struct {
	RunID      string `json:"run_id"`
	InputRoot  string `json:"input_root"`
	OutputRoot string `json:"output_root"`
	Format     string `json:"format"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Quality    int    `json:"quality"`
	Workers    int    `json:"workers"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at"`
	Total      int    `json:"total"`
	Failed     int    `json:"failed"`
	Collisions int    `json:"collisions"`
}

// ThumbnailRecord is the manifest row for one processed file
type ThumbnailRecord struct {
	RunID       string `json:"run_id"`
	SourcePath  string `json:"source_path"`
	DestPath    string `json:"dest_path"`
	SrcWidth    int    `json:"src_width"`
	SrcHeight   int    `json:"src_height"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Size        int64  `json:"size"`
	Status      string `json:"status"`
	Error       string `json:"error"`
	Camera      string `json:"camera"`
	TakenAt     string `json:"taken_at"`
	DurationMs  int64  `json:"duration_ms"`
	ProcessedAt string `json:"processed_at"`
}
