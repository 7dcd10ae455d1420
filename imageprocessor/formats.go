package imageprocessor

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// FormatType represents a known image format type
type FormatType string

// Known image format constants
const (
	FormatUnknown FormatType = "unknown"
	FormatJPEG    FormatType = "jpeg"
	FormatPNG     FormatType = "png"
	FormatWEBP    FormatType = "webp"
	FormatBMP     FormatType = "bmp"
	FormatTIFF    FormatType = "tiff"
)

// Map of input extensions to format types. Only these are discovered.
var formatExtensions = map[string]FormatType{
	".png":  FormatPNG,
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".webp": FormatWEBP,
	".bmp":  FormatBMP,
	".tiff": FormatTIFF,
}

// Output formats a thumbnail can be encoded in
var outputFormats = map[FormatType]bool{
	FormatJPEG: true,
	FormatPNG:  true,
	FormatWEBP: true,
}

// IsImageFile checks if a file is a supported input image based on extension.
// A name that is only an extension, like ".png", has no stem and is not an image.
func IsImageFile(path string) bool {
	base := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(base))
	if len(ext) == len(base) {
		return false
	}
	_, supported := formatExtensions[ext]
	return supported
}

// GetFileFormat returns the format type based on file extension
func GetFileFormat(path string) FormatType {
	ext := strings.ToLower(filepath.Ext(path))
	format, exists := formatExtensions[ext]
	if !exists {
		return FormatUnknown
	}
	return format
}

// GetSupportedExtensions returns all supported input extensions, sorted
func GetSupportedExtensions() []string {
	extensions := make([]string, 0, len(formatExtensions))
	for ext := range formatExtensions {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)
	return extensions
}

// ParseOutputFormat maps a user-supplied name to an output format.
// "jpg" is accepted as an alias for jpeg.
func ParseOutputFormat(name string) (FormatType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "webp":
		return FormatWEBP, nil
	default:
		return FormatUnknown, fmt.Errorf("unsupported output format %q (want jpeg, png or webp)", name)
	}
}

// IsOutputFormat reports whether thumbnails can be written in format
func IsOutputFormat(format FormatType) bool {
	return outputFormats[format]
}

// FormatToExtension returns the canonical output extension for a format
func FormatToExtension(format FormatType) string {
	switch format {
	case FormatJPEG:
		return ".jpg"
	case FormatPNG:
		return ".png"
	case FormatWEBP:
		return ".webp"
	case FormatBMP:
		return ".bmp"
	case FormatTIFF:
		return ".tiff"
	default:
		return ""
	}
}
