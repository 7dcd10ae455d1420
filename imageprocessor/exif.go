package imageprocessor

import (
	"errors"
	"strings"
	"sync"

	"thumbnailer/logging"

	"github.com/barasher/go-exiftool"
)

// CameraInfo is the subset of EXIF data stored alongside a thumbnail
type CameraInfo struct {
	Camera  string
	TakenAt string
}

// MetadataReader reads camera metadata through a long-lived exiftool process
type MetadataReader struct {
	et *exiftool.Exiftool
	mu sync.Mutex
}

// NewMetadataReader starts exiftool. It fails when the exiftool binary is
// not installed.
func NewMetadataReader() (*MetadataReader, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, err
	}
	logging.LogInfo("exiftool started for metadata reads")
	return &MetadataReader{et: et}, nil
}

// ReadCamera extracts camera make/model and capture time from path.
// A single exiftool process serves every worker, so calls are serialized.
func (p *MetadataReader) ReadCamera(path string) (CameraInfo, error) {
	p.mu.Lock()
	fileInfos := p.et.ExtractMetadata(path)
	p.mu.Unlock()

	if len(fileInfos) == 0 {
		return CameraInfo{}, errors.New("no metadata extracted")
	}
	fileInfo := fileInfos[0]
	if fileInfo.Err != nil {
		return CameraInfo{}, fileInfo.Err
	}

	var info CameraInfo
	maker, _ := fileInfo.GetString("Make")
	model, _ := fileInfo.GetString("Model")
	info.Camera = joinCamera(maker, model)
	info.TakenAt, _ = fileInfo.GetString("DateTimeOriginal")
	return info, nil
}

// Close stops the exiftool process
func (p *MetadataReader) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.et.Close()
}

// joinCamera avoids "Canon Canon EOS R5" when the model repeats the make
func joinCamera(maker, model string) string {
	maker = strings.TrimSpace(maker)
	model = strings.TrimSpace(model)
	switch {
	case maker == "":
		return model
	case model == "":
		return maker
	case strings.HasPrefix(strings.ToLower(model), strings.ToLower(maker)):
		return model
	default:
		return maker + " " + model
	}
}
