package database

import (
	"database/sql"
	"time"

	"thumbnailer/types"
)

// Manifest records the outcomes of one run. It is driven by a single
// goroutine, so it needs no locking of its own.
type Manifest struct {
	db    *sql.DB
	runID string
	now   func() time.Time
}

// NewManifest stores the run row and returns a recorder bound to it
func NewManifest(db *sql.DB, run types.RunRecord) (*Manifest, error) {
	m := &Manifest{db: db, runID: run.RunID, now: time.Now}
	if run.StartedAt == "" {
		run.StartedAt = m.now().UTC().Format(TimeLayout)
	}
	if err := StoreRun(db, run); err != nil {
		return nil, err
	}
	return m, nil
}

// RunID returns the run the manifest writes to
func (m *Manifest) RunID() string {
	return m.runID
}

// Record stores one job outcome
func (m *Manifest) Record(o types.Outcome) error {
	rec := types.ThumbnailRecord{
		RunID:       m.runID,
		SourcePath:  o.Job.SourcePath,
		DestPath:    o.Thumbnail.DestPath,
		SrcWidth:    o.Thumbnail.SrcWidth,
		SrcHeight:   o.Thumbnail.SrcHeight,
		Width:       o.Thumbnail.Width,
		Height:      o.Thumbnail.Height,
		Size:        o.Thumbnail.Size,
		Status:      StatusOK,
		Camera:      o.Thumbnail.Camera,
		TakenAt:     o.Thumbnail.TakenAt,
		DurationMs:  o.Duration.Milliseconds(),
		ProcessedAt: m.now().UTC().Format(TimeLayout),
	}
	if !o.Success() {
		rec.Status = StatusFailed
		rec.Error = o.Err.Error()
	}
	return StoreThumbnail(m.db, rec)
}

// Finish stores the run summary
func (m *Manifest) Finish(summary types.RunSummary) error {
	summary.RunID = m.runID
	return FinishRun(m.db, summary)
}
