package imageprocessor

import (
	"bytes"
	"errors"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"thumbnailer/types"

	"go.uber.org/zap/zaptest"
)

func newTestThumbnailer(t *testing.T, in, out string, format FormatType, quality int) *Thumbnailer {
	t.Helper()
	th, err := NewThumbnailer(ThumbnailOptions{
		InputRoot:  in,
		OutputRoot: out,
		Width:      240,
		Height:     160,
		Format:     format,
		Quality:    quality,
	}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewThumbnailer: %v", err)
	}
	return th
}

func TestDestinationPath(t *testing.T) {
	opts := ThumbnailOptions{InputRoot: "/data/in", OutputRoot: "/data/out", Format: FormatWEBP}

	got, err := DestinationPath(opts, "/data/in/a/b/c.png")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/data/out", "a", "b", "c.webp"); got != want {
		t.Fatalf("DestinationPath = %q, want %q", got, want)
	}

	opts.Format = FormatJPEG
	got, err = DestinationPath(opts, "/data/in/photo.final.JPEG")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/data/out", "photo.final.jpg"); got != want {
		t.Fatalf("DestinationPath = %q, want %q", got, want)
	}
}

func TestDestinationPath_OutsideRoot(t *testing.T) {
	opts := ThumbnailOptions{InputRoot: "/data/in", OutputRoot: "/data/out", Format: FormatPNG}
	for _, src := range []string{"/data/other/x.png", "/data/input/x.png", "/x.png"} {
		_, err := DestinationPath(opts, src)
		if KindOf(err) != KindPath {
			t.Errorf("DestinationPath(%q) error = %v, want a path error", src, err)
		}
	}
}

func TestProcess_MirroredWebP(t *testing.T) {
	root := t.TempDir()
	in, out := filepath.Join(root, "in"), filepath.Join(root, "out")
	src := filepath.Join(in, "a", "b", "c.png")
	writeSource(t, src, 400, 200)

	th := newTestThumbnailer(t, in, out, FormatWEBP, 85)
	thumb, err := th.Process(types.Job{SourcePath: src})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	want := filepath.Join(out, "a", "b", "c.webp")
	if thumb.DestPath != want {
		t.Fatalf("DestPath = %q, want %q", thumb.DestPath, want)
	}
	img, err := LoadImage(want)
	if err != nil {
		t.Fatalf("decode written webp: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 240 || b.Dy() != 120 {
		t.Fatalf("unexpected size %v", b.Size())
	}
	if thumb.SrcWidth != 400 || thumb.SrcHeight != 200 || thumb.Width != 240 || thumb.Height != 120 {
		t.Fatalf("unexpected dimensions %+v", thumb)
	}

	// Nothing else is written under the output root and no temp files remain
	var files []string
	filepath.Walk(out, func(p string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	if len(files) != 1 || files[0] != want {
		t.Fatalf("unexpected output files %v", files)
	}
}

func TestProcess_DecodeError(t *testing.T) {
	root := t.TempDir()
	in, out := filepath.Join(root, "in"), filepath.Join(root, "out")
	src := filepath.Join(in, "broken.jpg")
	if err := os.MkdirAll(in, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte("\xff\xd8 truncated"), 0644); err != nil {
		t.Fatal(err)
	}

	th := newTestThumbnailer(t, in, out, FormatJPEG, 85)
	_, err := th.Process(types.Job{SourcePath: src})
	if KindOf(err) != KindDecode {
		t.Fatalf("expected decode error, got %v", err)
	}
	var perr *Error
	if !errors.As(err, &perr) || perr.Path != src {
		t.Fatalf("error does not carry the source path: %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("output root should not be created for a failed decode")
	}

	_, err = th.Process(types.Job{SourcePath: filepath.Join(in, "missing.png")})
	if KindOf(err) != KindDecode {
		t.Fatalf("missing file should be a decode error, got %v", err)
	}
}

func TestProcess_IOError(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "in")
	src := filepath.Join(in, "sub", "a.png")
	writeSource(t, src, 50, 50)

	// A regular file where the output directory should be
	out := filepath.Join(root, "out")
	if err := os.MkdirAll(out, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(out, "sub"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	th := newTestThumbnailer(t, in, out, FormatPNG, 85)
	if _, err := th.Process(types.Job{SourcePath: src}); KindOf(err) != KindIO {
		t.Fatalf("expected io error, got %v", err)
	}
}

func TestProcess_PathError(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "elsewhere", "a.png")
	writeSource(t, src, 20, 20)

	th := newTestThumbnailer(t, filepath.Join(root, "in"), filepath.Join(root, "out"), FormatPNG, 85)
	if _, err := th.Process(types.Job{SourcePath: src}); KindOf(err) != KindPath {
		t.Fatalf("expected path error, got %v", err)
	}
}

func TestProcess_EncodeError(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "in")
	src := filepath.Join(in, "a.png")
	writeSource(t, src, 20, 20)

	th := newTestThumbnailer(t, in, filepath.Join(root, "out"), FormatPNG, 85)
	th.encoders.RegisterEncoder(FormatPNG, EncoderFunc(func(w io.Writer, img image.Image, q int) error {
		return errors.New("encoder refused")
	}))
	if _, err := th.Process(types.Job{SourcePath: src}); KindOf(err) != KindEncode {
		t.Fatalf("expected encode error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "out", "a.png")); !os.IsNotExist(err) {
		t.Fatalf("failed encode left a file behind")
	}
}

func TestProcess_Idempotent(t *testing.T) {
	for _, format := range []FormatType{FormatJPEG, FormatPNG} {
		t.Run(string(format), func(t *testing.T) {
			root := t.TempDir()
			in, out := filepath.Join(root, "in"), filepath.Join(root, "out")
			src := filepath.Join(in, "a.png")
			writeSource(t, src, 320, 320)

			th := newTestThumbnailer(t, in, out, format, 85)
			first, err := th.Process(types.Job{SourcePath: src})
			if err != nil {
				t.Fatal(err)
			}
			a, err := os.ReadFile(first.DestPath)
			if err != nil {
				t.Fatalf("read first thumbnail: %v", err)
			}

			second, err := th.Process(types.Job{SourcePath: src})
			if err != nil {
				t.Fatalf("second run must overwrite: %v", err)
			}
			b, err := os.ReadFile(second.DestPath)
			if err != nil {
				t.Fatalf("read second thumbnail: %v", err)
			}
			if !bytes.Equal(a, b) {
				t.Fatalf("re-run produced different bytes")
			}
		})
	}
}

func TestProcess_QualityRouting(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "in")
	src := filepath.Join(in, "photo.png")
	writeSource(t, src, 800, 600)

	size := func(format FormatType, quality int) []byte {
		out := filepath.Join(root, string(format), strconv.Itoa(quality))
		th := newTestThumbnailer(t, in, out, format, quality)
		thumb, err := th.Process(types.Job{SourcePath: src})
		if err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(thumb.DestPath)
		if err != nil {
			t.Fatal(err)
		}
		if int64(len(data)) != thumb.Size {
			t.Fatalf("Size %d does not match file length %d", thumb.Size, len(data))
		}
		return data
	}

	low, high := size(FormatJPEG, 50), size(FormatJPEG, 95)
	if len(high) <= len(low) {
		t.Fatalf("jpeg q95 (%d bytes) should be larger than q50 (%d bytes)", len(high), len(low))
	}

	pngLow, pngHigh := size(FormatPNG, 10), size(FormatPNG, 90)
	if !bytes.Equal(pngLow, pngHigh) {
		t.Fatalf("png output must not depend on quality")
	}
}

func TestThumbnailOptions_Validate(t *testing.T) {
	valid := ThumbnailOptions{InputRoot: "in", OutputRoot: "out", Width: 1, Height: 1, Format: FormatJPEG, Quality: 0}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid options rejected: %v", err)
	}

	for name, mutate := range map[string]func(*ThumbnailOptions){
		"no input":      func(o *ThumbnailOptions) { o.InputRoot = "" },
		"no output":     func(o *ThumbnailOptions) { o.OutputRoot = "" },
		"zero width":    func(o *ThumbnailOptions) { o.Width = 0 },
		"input format":  func(o *ThumbnailOptions) { o.Format = FormatBMP },
		"quality > 100": func(o *ThumbnailOptions) { o.Quality = 101 },
	} {
		o := valid
		mutate(&o)
		if err := o.Validate(); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}
