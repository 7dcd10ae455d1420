package imageprocessor

import (
	"errors"
	"fmt"
)

// Kind classifies a per-file failure
type Kind string

const (
	KindDecode Kind = "decode"
	KindPath   Kind = "path"
	KindIO     Kind = "io"
	KindEncode Kind = "encode"
)

// Error is the failure of one thumbnail job. It never aborts the run.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the failure kind from err; empty if err is not an *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func newDecodeError(path string, err error) error {
	return &Error{Kind: KindDecode, Path: path, Err: err}
}

func newPathError(path string, err error) error {
	return &Error{Kind: KindPath, Path: path, Err: err}
}

func newIOError(path string, err error) error {
	return &Error{Kind: KindIO, Path: path, Err: err}
}

func newEncodeError(path string, err error) error {
	return &Error{Kind: KindEncode, Path: path, Err: err}
}
