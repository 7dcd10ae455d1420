package imageprocessor

import (
	"math"
	"testing"
)

func TestFitDimensions(t *testing.T) {
	tests := []struct {
		name                   string
		srcW, srcH, maxW, maxH int
		wantW, wantH           int
	}{
		{"landscape width-bound", 400, 200, 240, 160, 240, 120},
		{"portrait height-bound", 200, 400, 240, 160, 80, 160},
		{"same aspect", 480, 320, 240, 160, 240, 160},
		{"already fits", 100, 50, 240, 160, 100, 50},
		{"exact bounds", 240, 160, 240, 160, 240, 160},
		{"one side over", 300, 100, 240, 160, 240, 80},
		{"extreme panorama keeps 1px", 10000, 10, 240, 160, 240, 1},
		{"extreme tower keeps 1px", 10, 10000, 240, 160, 1, 160},
		{"rounding", 1000, 333, 240, 160, 240, 80},
		{"invalid source", 0, 10, 240, 160, 0, 0},
		{"invalid bounds", 10, 10, 0, 160, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitDimensions(tt.srcW, tt.srcH, tt.maxW, tt.maxH)
			if w != tt.wantW || h != tt.wantH {
				t.Fatalf("FitDimensions(%d, %d, %d, %d) = %dx%d, want %dx%d",
					tt.srcW, tt.srcH, tt.maxW, tt.maxH, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestFitDimensions_Bound(t *testing.T) {
	for srcW := 1; srcW <= 600; srcW += 37 {
		for srcH := 1; srcH <= 600; srcH += 41 {
			for _, box := range [][2]int{{240, 160}, {160, 240}, {64, 64}, {1, 1}} {
				w, h := FitDimensions(srcW, srcH, box[0], box[1])
				if w > box[0] || h > box[1] {
					t.Fatalf("%dx%d in %v gave %dx%d, exceeds bounds", srcW, srcH, box, w, h)
				}
				if w > srcW || h > srcH {
					t.Fatalf("%dx%d in %v gave %dx%d, upscaled", srcW, srcH, box, w, h)
				}
				if w < 1 || h < 1 {
					t.Fatalf("%dx%d in %v gave %dx%d, empty", srcW, srcH, box, w, h)
				}
				// Aspect ratio within one pixel of rounding on the short side
				if w != srcW || h != srcH {
					exactH := float64(w) * float64(srcH) / float64(srcW)
					exactW := float64(h) * float64(srcW) / float64(srcH)
					if math.Abs(exactH-float64(h)) > 1 && math.Abs(exactW-float64(w)) > 1 {
						t.Fatalf("%dx%d in %v gave %dx%d, aspect not preserved", srcW, srcH, box, w, h)
					}
				}
			}
		}
	}
}

func TestResizeToFit(t *testing.T) {
	src := photo(400, 300)

	thumb := ResizeToFit(src, 240, 160)
	if b := thumb.Bounds(); b.Dx() != 213 || b.Dy() != 160 {
		t.Fatalf("unexpected size %v", b.Size())
	}

	same := ResizeToFit(src, 1000, 1000)
	if b := same.Bounds(); b.Dx() != 400 || b.Dy() != 300 {
		t.Fatalf("small image resized to %v", b.Size())
	}
}
