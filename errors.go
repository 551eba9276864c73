package micropng

import "fmt"

// ValidationError reports an image that cannot be encoded: no scanlines,
// ragged rows, or a channel count other than 3 or 4. It is returned before
// any compression or I/O happens.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return "micropng: invalid image: " + e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// CodecError reports a compressor failure.
type CodecError struct {
	Err error
}

func (e *CodecError) Error() string { return "micropng: compress: " + e.Err.Error() }
func (e *CodecError) Unwrap() error { return e.Err }

// IOError reports a destination that could not be created, written or
// renamed into place.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("micropng: write %s: %v", e.Path, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }
