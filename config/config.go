// Package config merges command-line flags, THUMBNAILER_* environment
// variables and defaults into the settings of one run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"thumbnailer/imageprocessor"
	"thumbnailer/signalhandler"

	"github.com/joho/godotenv"
)

// Error codes
const (
	ErrCodeInvalid = "argument_invalid"
	ErrCodeUnknown = "argument_unknown"
)

// Defaults
const (
	DefaultWidth   = 240
	DefaultHeight  = 160
	DefaultQuality = 85
	DefaultFormat  = imageprocessor.FormatJPEG
	DefaultLogFile = "thumbnailer.log"
	EnvPrefix      = "THUMBNAILER_"
)

// Commands
const (
	CommandRun    = "run"
	CommandReport = "report"
)

// Error is a structured configuration error. Every Error is an argument
// error: it is raised before any work starts.
type Error struct {
	Code string
	Flag string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Flag != "" && e.Err != nil:
		return fmt.Sprintf("%s: --%s: %v", e.Code, e.Flag, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	default:
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code extracts the error code from err; empty if err is not an *Error.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Config is the effective configuration of one invocation
type Config struct {
	Command string

	InputRoot  string
	OutputRoot string
	Width      int
	Height     int
	Workers    int
	Format     imageprocessor.FormatType
	Quality    int
	Benchmark  bool

	ManifestPath string
	RunID        string
	LogFile      string
	Debug        bool
	Exif         bool
	Progress     bool
}

// flags accepted per command
var knownFlags = map[string][]string{
	CommandRun: {
		"input", "output", "width", "height", "workers", "format", "quality",
		"benchmark", "manifest", "db", "exif", "progress", "debug", "logfile", "help",
	},
	CommandReport: {"manifest", "db", "run", "debug", "logfile", "help"},
}

// Load reads ./.env (if present) into the environment without overriding
// variables already set, then resolves the configuration.
func Load(args map[string]string, extra []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, &Error{Code: ErrCodeInvalid, Err: fmt.Errorf("reading .env: %w", err)}
	}
	return Resolve(args, extra, os.LookupEnv)
}

// Resolve merges args over the environment seen through lookup over the
// defaults. Precedence is CLI > environment > defaults.
func Resolve(args map[string]string, extra []string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Config{
		Command: CommandRun,
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		Workers: signalhandler.DefaultWorkers(),
		Format:  DefaultFormat,
		Quality: DefaultQuality,
	}
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}

	if cmd, ok := args["command"]; ok {
		cfg.Command = cmd
	}
	allowed, ok := knownFlags[cfg.Command]
	if !ok {
		return Config{}, &Error{Code: ErrCodeUnknown, Err: fmt.Errorf("unknown command %q", cfg.Command)}
	}
	if len(extra) > 0 {
		return Config{}, &Error{Code: ErrCodeUnknown, Err: fmt.Errorf("unexpected argument %q", extra[0])}
	}
	if err := checkFlags(args, allowed); err != nil {
		return Config{}, err
	}

	// value returns the CLI value, then the environment value
	value := func(flag string) (string, bool) {
		if v, ok := args[flag]; ok {
			return v, true
		}
		return lookup(EnvPrefix + strings.ToUpper(flag))
	}

	var err error
	if v, ok := value("input"); ok {
		cfg.InputRoot = v
	}
	if v, ok := value("output"); ok {
		cfg.OutputRoot = v
	}
	if cfg.Width, err = intValue(value, "width", cfg.Width); err != nil {
		return Config{}, err
	}
	if cfg.Height, err = intValue(value, "height", cfg.Height); err != nil {
		return Config{}, err
	}
	if cfg.Workers, err = intValue(value, "workers", cfg.Workers); err != nil {
		return Config{}, err
	}
	if cfg.Quality, err = intValue(value, "quality", cfg.Quality); err != nil {
		return Config{}, err
	}
	if v, ok := value("format"); ok {
		f, ferr := imageprocessor.ParseOutputFormat(v)
		if ferr != nil {
			return Config{}, &Error{Code: ErrCodeInvalid, Flag: "format", Err: ferr}
		}
		cfg.Format = f
	}
	for flag, dst := range map[string]*bool{
		"benchmark": &cfg.Benchmark,
		"debug":     &cfg.Debug,
		"exif":      &cfg.Exif,
		"progress":  &cfg.Progress,
	} {
		if *dst, err = boolValue(value, flag); err != nil {
			return Config{}, err
		}
	}

	// --db is the older spelling of --manifest
	if v, ok := args["db"]; ok {
		cfg.ManifestPath = v
	}
	if v, ok := value("manifest"); ok {
		cfg.ManifestPath = v
	}
	if v, ok := value("logfile"); ok {
		cfg.LogFile = v
	}
	if cfg.LogFile == "" && cfg.Debug {
		cfg.LogFile = DefaultLogFile
	}
	cfg.RunID = args["run"]

	if cfg.Command == CommandReport {
		if cfg.ManifestPath == "true" {
			return Config{}, &Error{Code: ErrCodeInvalid, Flag: "manifest", Err: errors.New("missing value")}
		}
		return cfg, nil
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	required := map[string]string{"input": c.InputRoot, "output": c.OutputRoot}
	for _, flag := range []string{"input", "output"} {
		v := required[flag]
		if v == "" || v == "true" {
			return &Error{Code: ErrCodeInvalid, Flag: flag, Err: errors.New("a directory is required")}
		}
	}
	if c.ManifestPath == "true" {
		return &Error{Code: ErrCodeInvalid, Flag: "manifest", Err: errors.New("missing value")}
	}
	if c.LogFile == "true" {
		return &Error{Code: ErrCodeInvalid, Flag: "logfile", Err: errors.New("missing value")}
	}
	if c.Width <= 0 {
		return &Error{Code: ErrCodeInvalid, Flag: "width", Err: fmt.Errorf("must be positive, got %d", c.Width)}
	}
	if c.Height <= 0 {
		return &Error{Code: ErrCodeInvalid, Flag: "height", Err: fmt.Errorf("must be positive, got %d", c.Height)}
	}
	if c.Workers <= 0 {
		return &Error{Code: ErrCodeInvalid, Flag: "workers", Err: fmt.Errorf("must be positive, got %d", c.Workers)}
	}
	if c.Quality < 0 || c.Quality > 100 {
		return &Error{Code: ErrCodeInvalid, Flag: "quality", Err: fmt.Errorf("must be within 0..100, got %d", c.Quality)}
	}
	return nil
}

// ThumbnailOptions returns the per-job options of a run with both roots
// made absolute.
func (c Config) ThumbnailOptions() (imageprocessor.ThumbnailOptions, error) {
	in, err := filepath.Abs(c.InputRoot)
	if err != nil {
		return imageprocessor.ThumbnailOptions{}, &Error{Code: ErrCodeInvalid, Flag: "input", Err: err}
	}
	out, err := filepath.Abs(c.OutputRoot)
	if err != nil {
		return imageprocessor.ThumbnailOptions{}, &Error{Code: ErrCodeInvalid, Flag: "output", Err: err}
	}
	return imageprocessor.ThumbnailOptions{
		InputRoot:  in,
		OutputRoot: out,
		Width:      c.Width,
		Height:     c.Height,
		Format:     c.Format,
		Quality:    c.Quality,
	}, nil
}

func checkFlags(args map[string]string, allowed []string) error {
	ok := make(map[string]bool, len(allowed)+1)
	for _, f := range allowed {
		ok[f] = true
	}
	ok["command"] = true

	var unknown []string
	for k := range args {
		if !ok[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return &Error{Code: ErrCodeUnknown, Flag: unknown[0], Err: errors.New("unknown flag")}
}

func intValue(value func(string) (string, bool), flag string, def int) (int, error) {
	v, ok := value(flag)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, &Error{Code: ErrCodeInvalid, Flag: flag, Err: fmt.Errorf("not an integer: %q", v)}
	}
	return n, nil
}

func boolValue(value func(string) (string, bool), flag string) (bool, error) {
	v, ok := value(flag)
	if !ok {
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, &Error{Code: ErrCodeInvalid, Flag: flag, Err: fmt.Errorf("not a boolean: %q", v)}
	}
	return b, nil
}
