package imageprocessor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

// photo returns a noisy gradient, close enough to photographic content
// for lossy encoders to show a quality/size trade-off.
func photo(w, h int) *image.NRGBA {
	rng := rand.New(rand.NewSource(42))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			n := uint8(rng.Intn(48))
			img.Set(x, y, color.NRGBA{
				R: uint8(x*200/w) + n,
				G: uint8(y*200/h) + n,
				B: uint8((x+y)*100/(w+h)) + n,
				A: 255,
			})
		}
	}
	return img
}

func writeSource(t *testing.T, path string, w, h int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, photo(w, h)); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}
