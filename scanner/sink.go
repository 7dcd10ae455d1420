package scanner

import (
	"fmt"
	"io"
	"sync"
)

// ErrorSink receives one report per failed file
type ErrorSink interface {
	Report(path string, err error)
}

// WriterSink writes "failed <path>: <cause>" lines. Writes are serialized
// so lines from concurrent callers never interleave.
type WriterSink struct {
	mu    sync.Mutex
	w     io.Writer
	count int
}

// NewWriterSink creates a sink writing to w
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Report writes one failure line
func (s *WriterSink) Report(path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "failed %s: %v\n", path, err)
	s.count++
}

// Count returns the number of failures reported so far
func (s *WriterSink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}
