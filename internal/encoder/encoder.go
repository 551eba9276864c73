package encoder

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zlib"
)

// Compressor turns the filtered scanline stream into IDAT payload bytes.
type Compressor interface {
	// Name identifies the compressor in reports (e.g. "zlib/9").
	Name() string

	// Compress returns a zlib-wrapped DEFLATE stream of data.
	Compress(data []byte) ([]byte, error)
}

// Compression levels accepted by ZlibCompressor.
const (
	NoCompression      = zlib.NoCompression
	BestSpeed          = zlib.BestSpeed
	BestCompression    = zlib.BestCompression
	DefaultCompression = zlib.DefaultCompression
)

// ErrCompress is wrapped by every compressor failure.
var ErrCompress = errors.New("compress")

// ZlibCompressor compresses with klauspost's drop-in zlib writer.
// The zero value uses level 0 (stored); use NewZlib for defaults.
type ZlibCompressor struct {
	Level int
}

// NewZlib returns a compressor at the given level.
func NewZlib(level int) *ZlibCompressor {
	return &ZlibCompressor{Level: level}
}

func (c *ZlibCompressor) Name() string { return fmt.Sprintf("zlib/%d", c.Level) }

func (c *ZlibCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(data)/2 + 64)

	zw, err := zlib.NewWriterLevel(&buf, c.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompress, err)
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return nil, fmt.Errorf("%w: write: %v", ErrCompress, err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: close: %v", ErrCompress, err)
	}
	return buf.Bytes(), nil
}
