package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"thumbnailer/config"
	"thumbnailer/database"
	"thumbnailer/imageprocessor"
	"thumbnailer/logging"
	"thumbnailer/scanner"
	"thumbnailer/scanner/processor"
	"thumbnailer/signalhandler"
	"thumbnailer/types"
	"thumbnailer/utils"

	"github.com/google/uuid"
)

// Exit codes. Per-file failures never change the exit code.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(argv []string, stdout, stderr io.Writer) int {
	// Parse command line arguments into a map
	args, extra := utils.ParseArguments(argv)
	if args["help"] == "true" {
		utils.PrintUsage(stdout)
		return exitOK
	}

	cfg, err := config.Load(args, extra)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		utils.PrintUsage(stderr)
		return exitUsage
	}

	// Setup logging if a log file is configured
	if cfg.LogFile != "" {
		if err := logging.SetupLogger(cfg.LogFile, cfg.Debug); err != nil {
			fmt.Fprintf(stderr, "Warning: Failed to setup logging: %v\n", err)
		}
		defer logging.CloseLogger()
	}

	switch cfg.Command {
	case config.CommandReport:
		return handleReportCommand(cfg, stdout, stderr)
	default:
		return handleRunCommand(cfg, stdout, stderr)
	}
}

func handleRunCommand(cfg config.Config, stdout, stderr io.Writer) int {
	opts, err := cfg.ThumbnailOptions()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		utils.PrintUsage(stderr)
		return exitUsage
	}

	// Verify the input root exists and is a directory
	folderInfo, err := os.Stat(opts.InputRoot)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(stderr, "Error: input directory does not exist: %s\n", opts.InputRoot)
		} else {
			fmt.Fprintf(stderr, "Error: cannot access input directory: %s (%v)\n", opts.InputRoot, err)
		}
		return exitFailure
	}
	if !folderInfo.IsDir() {
		fmt.Fprintf(stderr, "Error: input path is not a directory: %s\n", opts.InputRoot)
		return exitFailure
	}
	// Walk the real directory when the root itself is a symlink
	if resolved, err := filepath.EvalSymlinks(opts.InputRoot); err == nil {
		opts.InputRoot = resolved
	}

	runID := uuid.NewString()
	logging.LogInfo("Run %s: %s -> %s", runID, opts.InputRoot, opts.OutputRoot)

	var (
		db       *sql.DB
		manifest *database.Manifest
		recorder scanner.OutcomeRecorder
		exif     *imageprocessor.MetadataReader
		camera   processor.CameraReader
	)

	if cfg.ManifestPath != "" {
		db, err = database.InitDatabaseWithRetry(cfg.ManifestPath, 3)
		if err != nil {
			fmt.Fprintf(stderr, "Error: cannot open manifest %s: %v\n", cfg.ManifestPath, err)
			return exitFailure
		}
		defer db.Close()

		manifest, err = database.NewManifest(db, types.RunRecord{
			RunID:      runID,
			InputRoot:  opts.InputRoot,
			OutputRoot: opts.OutputRoot,
			Format:     string(opts.Format),
			Width:      opts.Width,
			Height:     opts.Height,
			Quality:    opts.Quality,
			Workers:    cfg.Workers,
		})
		if err != nil {
			fmt.Fprintf(stderr, "Error: cannot start run in manifest: %v\n", err)
			return exitFailure
		}
		recorder = manifest
	}

	if cfg.Exif {
		exif, err = imageprocessor.NewMetadataReader()
		if err != nil {
			logging.LogWarning("EXIF metadata disabled: %v", err)
		} else {
			defer exif.Close()
			camera = exif
		}
	}

	// No cancellation: an interrupt only closes the manifest and log cleanly
	stop := signalhandler.SetupHandler(func() {
		logging.LogWarning("Run %s interrupted", runID)
		if exif != nil {
			exif.Close()
		}
		if db != nil {
			db.Close()
		}
		logging.CloseLogger()
	})
	defer stop()

	summary, err := scanner.ThumbnailFolder(scanner.ScanOptions{
		Thumbnail: opts,
		Workers:   cfg.Workers,
		Benchmark: cfg.Benchmark,
		Progress:  cfg.Progress,
		DebugMode: cfg.Debug,
		RunID:     runID,
		Stdout:    stdout,
		Stderr:    stderr,
		Recorder:  recorder,
		Metadata:  camera,
		Logger:    logging.Logger(),
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	if manifest != nil {
		if err := manifest.Finish(summary); err != nil {
			logging.LogError("Cannot finish run %s in manifest: %v", runID, err)
		}
	}
	return exitOK
}

func handleReportCommand(cfg config.Config, stdout, stderr io.Writer) int {
	dbPath := cfg.ManifestPath
	if dbPath == "" {
		dbPath = utils.GetDefaultManifestPath()
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintf(stderr, "Error: manifest does not exist: %s. Run with --manifest first.\n", dbPath)
		return exitFailure
	}

	db, err := database.OpenDatabase(dbPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening manifest: %v\n", err)
		return exitFailure
	}
	defer db.Close()

	runID := cfg.RunID
	if runID == "" {
		runID, err = database.LatestRunID(db)
		if errors.Is(err, database.ErrNoRuns) {
			fmt.Fprintf(stdout, "No runs recorded in %s\n", dbPath)
			return exitOK
		}
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFailure
		}
	}

	if err := printRunReport(stdout, db, runID); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	return exitOK
}

// printRunReport writes the stored summary and failures of one run
func printRunReport(w io.Writer, db *sql.DB, runID string) error {
	run, err := database.GetRun(db, runID)
	if err != nil {
		return err
	}
	stats, err := database.GetRunStats(db, runID)
	if err != nil {
		return err
	}
	failures, err := database.ListFailures(db, runID)
	if err != nil {
		return err
	}

	finished := run.FinishedAt
	if finished == "" {
		finished = "(incomplete)"
	}

	fmt.Fprintf(w, "Run:        %s\n", run.RunID)
	fmt.Fprintf(w, "Input:      %s\n", run.InputRoot)
	fmt.Fprintf(w, "Output:     %s\n", run.OutputRoot)
	fmt.Fprintf(w, "Settings:   %s %dx%d quality %d, %d workers\n", run.Format, run.Width, run.Height, run.Quality, run.Workers)
	fmt.Fprintf(w, "Started:    %s\n", run.StartedAt)
	fmt.Fprintf(w, "Finished:   %s\n", finished)
	fmt.Fprintf(w, "Files:      %d discovered, %d recorded, %d ok, %d failed\n", run.Total, stats.Recorded, stats.Succeeded, stats.Failed)
	fmt.Fprintf(w, "Collisions: %d\n", run.Collisions)
	fmt.Fprintf(w, "Written:    %d bytes\n", stats.TotalBytes)

	if len(failures) > 0 {
		fmt.Fprintf(w, "\nFailures:\n")
		for _, f := range failures {
			fmt.Fprintf(w, "  %s: %s\n", f.SourcePath, f.Error)
		}
	}
	return nil
}
