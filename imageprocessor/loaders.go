package imageprocessor

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // registers the WebP decoder with image.Decode
)

// ImageLoader interface defines methods for image loading
type ImageLoader interface {
	// CanLoad determines if this loader can handle the given file
	CanLoad(path string) bool

	// LoadImage decodes the file at path
	LoadImage(path string) (image.Image, error)
}

// StandardImageLoader decodes every supported input format through imaging.
// BMP and TIFF decoders come in with imaging, WebP with x/image/webp.
type StandardImageLoader struct {
	// AutoOrient applies the EXIF orientation tag of JPEG sources
	AutoOrient bool
}

// NewStandardImageLoader creates a loader that honours EXIF orientation
func NewStandardImageLoader() *StandardImageLoader {
	return &StandardImageLoader{AutoOrient: true}
}

// CanLoad checks if this loader supports the file's format
func (l *StandardImageLoader) CanLoad(path string) bool {
	return GetFileFormat(path) != FormatUnknown
}

// LoadImage decodes an image file
func (l *StandardImageLoader) LoadImage(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(l.AutoOrient))
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("image has no pixels: %s", path)
	}
	return img, nil
}

// LoadImage decodes path with the standard loader
func LoadImage(path string) (image.Image, error) {
	return NewStandardImageLoader().LoadImage(path)
}
