package imageprocessor

import (
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
)

// webpLosslessLevel trades encode time for size; 0 is fastest, 9 smallest.
const webpLosslessLevel = 6

// ImageEncoder writes an image in one output format
type ImageEncoder interface {
	// Encode writes img to w. Quality is only meaningful for lossy formats.
	Encode(w io.Writer, img image.Image, quality int) error
}

// EncoderFunc adapts a plain function to ImageEncoder
type EncoderFunc func(w io.Writer, img image.Image, quality int) error

// Encode calls f
func (f EncoderFunc) Encode(w io.Writer, img image.Image, quality int) error {
	return f(w, img, quality)
}

// ImageEncoderRegistry maps output formats to encoders
type ImageEncoderRegistry struct {
	encoders map[FormatType]ImageEncoder
	mutex    sync.RWMutex
}

// NewImageEncoderRegistry creates a registry with the JPEG, PNG and WebP encoders
func NewImageEncoderRegistry() *ImageEncoderRegistry {
	registry := &ImageEncoderRegistry{
		encoders: make(map[FormatType]ImageEncoder),
	}

	registry.RegisterEncoder(FormatJPEG, EncoderFunc(encodeJPEG))
	registry.RegisterEncoder(FormatPNG, EncoderFunc(encodePNG))
	registry.RegisterEncoder(FormatWEBP, EncoderFunc(encodeWEBP))

	return registry
}

// RegisterEncoder registers (or replaces) the encoder for a format
func (r *ImageEncoderRegistry) RegisterEncoder(format FormatType, enc ImageEncoder) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.encoders[format] = enc
}

// GetEncoder returns the encoder for format, or an error if none is registered
func (r *ImageEncoderRegistry) GetEncoder(format FormatType) (ImageEncoder, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	enc, ok := r.encoders[format]
	if !ok {
		return nil, fmt.Errorf("no encoder registered for format %q", format)
	}
	return enc, nil
}

func encodeJPEG(w io.Writer, img image.Image, quality int) error {
	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
}

// PNG is lossless, quality is ignored.
func encodePNG(w io.Writer, img image.Image, _ int) error {
	return imaging.Encode(w, img, imaging.PNG)
}

// WebP thumbnails are encoded lossless, so quality is ignored.
func encodeWEBP(w io.Writer, img image.Image, _ int) error {
	options, err := encoder.NewLosslessEncoderOptions(encoder.PresetDefault, webpLosslessLevel)
	if err != nil {
		return err
	}
	// libwebp needs a concrete RGBA-family image
	return webp.Encode(w, imaging.Clone(img), options)
}
