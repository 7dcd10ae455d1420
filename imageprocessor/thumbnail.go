package imageprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"thumbnailer/types"

	"go.uber.org/zap"
)

// ThumbnailOptions is the run configuration every job shares. It is
// built once at startup and never mutated.
type ThumbnailOptions struct {
	InputRoot  string
	OutputRoot string
	Width      int
	Height     int
	Format     FormatType
	Quality    int
}

// Validate checks the options before any work starts
func (o ThumbnailOptions) Validate() error {
	if o.InputRoot == "" {
		return errors.New("input root is empty")
	}
	if o.OutputRoot == "" {
		return errors.New("output root is empty")
	}
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("bounds must be positive, got %dx%d", o.Width, o.Height)
	}
	if !IsOutputFormat(o.Format) {
		return fmt.Errorf("unsupported output format %q", o.Format)
	}
	if o.Quality < 0 || o.Quality > 100 {
		return fmt.Errorf("quality must be within 0..100, got %d", o.Quality)
	}
	return nil
}

// Thumbnailer runs the decode, resize, encode and write steps for one job.
// It holds no per-job state and is safe for concurrent use.
type Thumbnailer struct {
	opts     ThumbnailOptions
	loader   ImageLoader
	encoders *ImageEncoderRegistry
	logger   *zap.Logger
}

// NewThumbnailer creates a Thumbnailer for opts
func NewThumbnailer(opts ThumbnailOptions, logger *zap.Logger) (*Thumbnailer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts.InputRoot = filepath.Clean(opts.InputRoot)
	opts.OutputRoot = filepath.Clean(opts.OutputRoot)

	return &Thumbnailer{
		opts:     opts,
		loader:   NewStandardImageLoader(),
		encoders: NewImageEncoderRegistry(),
		logger:   logger,
	}, nil
}

// Options returns the options the Thumbnailer was built with
func (t *Thumbnailer) Options() ThumbnailOptions {
	return t.opts
}

// DestinationPath mirrors src from the input root into the output root
// and swaps its extension for the output format's.
func (t *Thumbnailer) DestinationPath(src string) (string, error) {
	return DestinationPath(t.opts, src)
}

// DestinationPath computes the thumbnail path for src under opts
func DestinationPath(opts ThumbnailOptions, src string) (string, error) {
	rel, err := filepath.Rel(filepath.Clean(opts.InputRoot), filepath.Clean(src))
	if err != nil {
		return "", newPathError(src, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", newPathError(src, fmt.Errorf("%s is not under %s", src, opts.InputRoot))
	}

	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + FormatToExtension(opts.Format)
	return filepath.Join(opts.OutputRoot, rel), nil
}

// Process turns one source file into one thumbnail
func (t *Thumbnailer) Process(job types.Job) (types.Thumbnail, error) {
	src := job.SourcePath
	result := types.Thumbnail{SourcePath: src}

	// Decode
	img, err := t.loader.LoadImage(src)
	if err != nil {
		return result, newDecodeError(src, err)
	}
	b := img.Bounds()
	result.SrcWidth, result.SrcHeight = b.Dx(), b.Dy()

	// Resize
	thumb := ResizeToFit(img, t.opts.Width, t.opts.Height)
	result.Width, result.Height = thumb.Bounds().Dx(), thumb.Bounds().Dy()

	// Destination
	dst, err := t.DestinationPath(src)
	if err != nil {
		return result, err
	}
	result.DestPath = dst

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return result, newIOError(src, err)
	}

	// Encode into memory first so a failed encode never touches dst
	enc, err := t.encoders.GetEncoder(t.opts.Format)
	if err != nil {
		return result, newEncodeError(src, err)
	}
	var buf bytes.Buffer
	if err := enc.Encode(&buf, thumb, t.opts.Quality); err != nil {
		return result, newEncodeError(src, err)
	}

	if err := writeFileAtomic(dst, buf.Bytes()); err != nil {
		return result, newIOError(src, err)
	}
	result.Size = int64(buf.Len())

	t.logger.Debug("thumbnail written",
		zap.String("source", src),
		zap.String("dest", dst),
		zap.Int("width", result.Width),
		zap.Int("height", result.Height),
		zap.Int64("bytes", result.Size),
	)

	return result, nil
}

// writeFileAtomic writes data to a temp file next to dst and renames it
// over dst, replacing any previous thumbnail.
func writeFileAtomic(dst string, data []byte) error {
	dir := filepath.Dir(dst)
	f, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
