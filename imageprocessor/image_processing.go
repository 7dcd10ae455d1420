package imageprocessor

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// FitDimensions returns the size of an srcW x srcH image scaled to fit
// within maxW x maxH with its aspect ratio kept. Images already inside
// the bounds keep their size; nothing is ever upscaled.
func FitDimensions(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW <= 0 || srcH <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	if srcW <= maxW && srcH <= maxH {
		return srcW, srcH
	}

	srcAspect := float64(srcW) / float64(srcH)
	maxAspect := float64(maxW) / float64(maxH)

	// The side that hits its bound first decides the scale
	if srcAspect > maxAspect {
		h := int(math.Max(1, math.Floor(float64(maxW)/srcAspect+0.5)))
		return maxW, h
	}
	w := int(math.Max(1, math.Floor(float64(maxH)*srcAspect+0.5)))
	return w, maxH
}

// ResizeToFit scales img down to fit within maxW x maxH using Lanczos
// resampling. The result is never larger than the source in either side.
func ResizeToFit(img image.Image, maxW, maxH int) *image.NRGBA {
	b := img.Bounds()
	w, h := FitDimensions(b.Dx(), b.Dy(), maxW, maxH)
	if w == b.Dx() && h == b.Dy() {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}
