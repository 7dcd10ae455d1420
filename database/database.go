package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"thumbnailer/logging"
	"thumbnailer/types"

	_ "github.com/mattn/go-sqlite3"
)

// Thumbnail status values stored in the manifest
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// TimeLayout keeps timestamps fixed-width so they sort as text
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// ErrNoRuns is returned when the manifest holds no run yet
var ErrNoRuns = errors.New("manifest has no runs")

// InitDatabase opens the manifest at dbPath and creates its schema
func InitDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		input_root TEXT NOT NULL,
		output_root TEXT NOT NULL,
		format TEXT,
		width INTEGER,
		height INTEGER,
		quality INTEGER,
		workers INTEGER,
		started_at TEXT,
		finished_at TEXT,
		total INTEGER DEFAULT 0,
		failed INTEGER DEFAULT 0,
		collisions INTEGER DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS thumbnails (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		source_path TEXT NOT NULL,
		dest_path TEXT,
		src_width INTEGER,
		src_height INTEGER,
		width INTEGER,
		height INTEGER,
		size INTEGER,
		status TEXT NOT NULL,
		error TEXT,
		camera TEXT,
		taken_at TEXT,
		duration_ms INTEGER,
		processed_at TEXT,
		UNIQUE(run_id, source_path)
	);
	CREATE INDEX IF NOT EXISTS idx_thumbnails_run ON thumbnails(run_id);
	CREATE INDEX IF NOT EXISTS idx_thumbnails_status ON thumbnails(run_id, status);`

	if _, err = db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, err
	}

	// Older manifests predate collision tracking
	var hasCollisions bool
	err = db.QueryRow("SELECT COUNT(*) FROM pragma_table_info('runs') WHERE name='collisions'").Scan(&hasCollisions)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error checking for collisions column: %w", err)
	}
	if !hasCollisions {
		if _, err = db.Exec("ALTER TABLE runs ADD COLUMN collisions INTEGER DEFAULT 0;"); err != nil {
			db.Close()
			return nil, fmt.Errorf("error adding collisions column: %w", err)
		}
		logging.DebugLog("Added 'collisions' column to existing manifest schema")
	}

	return db, nil
}

// InitDatabaseWithRetry retries InitDatabase with linear back-off, since a
// manifest on a network share can be briefly locked by another process.
func InitDatabaseWithRetry(dbPath string, maxRetries int) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	for i := 0; i < maxRetries; i++ {
		db, err = InitDatabase(dbPath)
		if err == nil {
			return db, nil
		}
		if i < maxRetries-1 {
			logging.LogWarning("Error initializing manifest (attempt %d/%d): %v - retrying...", i+1, maxRetries, err)
			time.Sleep(time.Second * time.Duration(i+1))
		}
	}
	return nil, fmt.Errorf("initializing manifest after %d attempts: %w", maxRetries, err)
}

// OpenDatabase opens an existing manifest
func OpenDatabase(dbPath string) (*sql.DB, error) {
	return sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
}

// StoreRun inserts the run row at the start of a run
func StoreRun(db *sql.DB, run types.RunRecord) error {
	_, err := db.Exec(`
		INSERT OR REPLACE INTO runs (
			run_id, input_root, output_root, format, width, height, quality, workers, started_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.InputRoot, run.OutputRoot, run.Format,
		run.Width, run.Height, run.Quality, run.Workers, run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("cannot store run %s: %w", run.RunID, err)
	}
	return nil
}

// FinishRun records the final counts of a run
func FinishRun(db *sql.DB, summary types.RunSummary) error {
	_, err := db.Exec(`
		UPDATE runs SET finished_at = ?, total = ?, failed = ?, collisions = ?
		WHERE run_id = ?`,
		summary.FinishedAt.UTC().Format(TimeLayout), summary.Total, summary.Failed, summary.Collisions, summary.RunID,
	)
	if err != nil {
		return fmt.Errorf("cannot finish run %s: %w", summary.RunID, err)
	}
	return nil
}

// StoreThumbnail stores one processed file. Re-recording the same source
// in the same run replaces the earlier row.
func StoreThumbnail(db *sql.DB, rec types.ThumbnailRecord) error {
	stmt, err := db.Prepare(`
		INSERT OR REPLACE INTO thumbnails (
			run_id, source_path, dest_path, src_width, src_height, width, height, size,
			status, error, camera, taken_at, duration_ms, processed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("cannot prepare statement for %s: %w", rec.SourcePath, err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		rec.RunID, rec.SourcePath, rec.DestPath,
		rec.SrcWidth, rec.SrcHeight, rec.Width, rec.Height, rec.Size,
		rec.Status, rec.Error, rec.Camera, rec.TakenAt, rec.DurationMs, rec.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("cannot insert data for %s: %w", rec.SourcePath, err)
	}
	return nil
}

// LatestRunID returns the id of the most recently started run
func LatestRunID(db *sql.DB) (string, error) {
	var id string
	err := db.QueryRow(`SELECT run_id FROM runs ORDER BY started_at DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoRuns
	}
	if err != nil {
		return "", fmt.Errorf("failed to find latest run: %w", err)
	}
	return id, nil
}

// GetRun loads a run row
func GetRun(db *sql.DB, runID string) (*types.RunRecord, error) {
	var (
		run      types.RunRecord
		finished sql.NullString
	)
	err := db.QueryRow(`
		SELECT run_id, input_root, output_root, format, width, height, quality, workers,
		       started_at, finished_at, total, failed, collisions
		FROM runs WHERE run_id = ?`, runID).Scan(
		&run.RunID, &run.InputRoot, &run.OutputRoot, &run.Format, &run.Width, &run.Height,
		&run.Quality, &run.Workers, &run.StartedAt, &finished, &run.Total, &run.Failed, &run.Collisions,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", runID, err)
	}
	run.FinishedAt = finished.String
	return &run, nil
}

// RunStats contains per-status counts of the thumbnails recorded for a run
type RunStats struct {
	Recorded   int
	Succeeded  int
	Failed     int
	TotalBytes int64
}

// GetRunStats counts the recorded thumbnails of a run
func GetRunStats(db *sql.DB, runID string) (*RunStats, error) {
	var stats RunStats
	err := db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(size), 0)
		FROM thumbnails WHERE run_id = ?`,
		StatusOK, StatusFailed, runID,
	).Scan(&stats.Recorded, &stats.Succeeded, &stats.Failed, &stats.TotalBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats for run %s: %w", runID, err)
	}
	return &stats, nil
}

// ListFailures returns the failed thumbnails of a run ordered by source path
func ListFailures(db *sql.DB, runID string) ([]types.ThumbnailRecord, error) {
	rows, err := db.Query(`
		SELECT source_path, COALESCE(error, ''), COALESCE(processed_at, '')
		FROM thumbnails WHERE run_id = ? AND status = ?
		ORDER BY source_path`, runID, StatusFailed)
	if err != nil {
		return nil, fmt.Errorf("failed to list failures for run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []types.ThumbnailRecord
	for rows.Next() {
		rec := types.ThumbnailRecord{RunID: runID, Status: StatusFailed}
		if err := rows.Scan(&rec.SourcePath, &rec.Error, &rec.ProcessedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
