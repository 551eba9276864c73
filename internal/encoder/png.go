// Package encoder frames a filtered scanline stream as a minimal PNG:
// signature, IHDR, a single IDAT and IEND. Only 8-bit truecolor and
// truecolor+alpha without interlacing are produced.
package encoder

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Signature is the fixed 8-byte PNG magic.
var Signature = [8]byte{137, 80, 78, 71, 13, 10, 26, 10}

// Chunk tags.
const (
	TagIHDR = "IHDR"
	TagIDAT = "IDAT"
	TagIEND = "IEND"
)

// IHDR field values.
const (
	BitDepth                = 8
	ColorTypeTruecolor      = 2
	ColorTypeTruecolorAlpha = 6

	compressionDeflate = 0
	filterAdaptive     = 0
	interlaceNone      = 0

	headerLen = 13
)

var (
	ErrUnsupportedChannels = errors.New("unsupported channel count")
	ErrBadDimensions       = errors.New("bad dimensions")
)

// ColorType maps a channel count to the PNG color type.
func ColorType(channels int) (uint8, error) {
	switch channels {
	case 3:
		return ColorTypeTruecolor, nil
	case 4:
		return ColorTypeTruecolorAlpha, nil
	default:
		return 0, fmt.Errorf("%w: %d (want 3 or 4)", ErrUnsupportedChannels, channels)
	}
}

// Channels is the inverse of ColorType; it returns 0 for color types
// this package never writes.
func Channels(colorType uint8) int {
	switch colorType {
	case ColorTypeTruecolor:
		return 3
	case ColorTypeTruecolorAlpha:
		return 4
	}
	return 0
}

// Header is the subset of IHDR that varies between our images.
type Header struct {
	Width     uint32
	Height    uint32
	ColorType uint8
}

// Bytes returns the 13-byte IHDR payload.
func (h Header) Bytes() []byte {
	b := make([]byte, headerLen)
	binary.BigEndian.PutUint32(b[0:4], h.Width)
	binary.BigEndian.PutUint32(b[4:8], h.Height)
	b[8] = BitDepth
	b[9] = h.ColorType
	b[10] = compressionDeflate
	b[11] = filterAdaptive
	b[12] = interlaceNone
	return b
}

// ParseHeader reads an IHDR payload written by Header.Bytes.
func ParseHeader(payload []byte) (Header, error) {
	if len(payload) != headerLen {
		return Header{}, fmt.Errorf("IHDR: length %d, want %d", len(payload), headerLen)
	}
	h := Header{
		Width:     binary.BigEndian.Uint32(payload[0:4]),
		Height:    binary.BigEndian.Uint32(payload[4:8]),
		ColorType: payload[9],
	}
	if payload[8] != BitDepth {
		return h, fmt.Errorf("IHDR: bit depth %d, want %d", payload[8], BitDepth)
	}
	if Channels(h.ColorType) == 0 {
		return h, fmt.Errorf("IHDR: color type %d not supported", h.ColorType)
	}
	if payload[10] != compressionDeflate || payload[11] != filterAdaptive || payload[12] != interlaceNone {
		return h, fmt.Errorf("IHDR: methods %d/%d/%d, want 0/0/0", payload[10], payload[11], payload[12])
	}
	return h, nil
}

// Encode compresses filtered and wraps it in PNG framing. filtered must be
// height rows of one filter byte plus width*channels bytes. A nil c uses
// zlib at the default level. Nothing is compressed until the header
// parameters have been validated.
func Encode(width, height, channels int, filtered []byte, c Compressor) ([]byte, error) {
	colorType, err := ColorType(channels)
	if err != nil {
		return nil, err
	}
	if width < 1 || height < 1 || width > math.MaxInt32 || height > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, width, height)
	}
	// Computed in 64 bits so large dimensions cannot wrap onto a short stream.
	if want := uint64(height) * (1 + uint64(width)*uint64(channels)); uint64(len(filtered)) != want {
		return nil, fmt.Errorf("%w: %d filtered bytes for %dx%dx%d, want %d",
			ErrBadDimensions, len(filtered), width, height, channels, want)
	}

	if c == nil {
		c = NewZlib(DefaultCompression)
	}
	compressed, err := c.Compress(filtered)
	if err != nil {
		return nil, err
	}

	ihdr := Header{Width: uint32(width), Height: uint32(height), ColorType: colorType}

	var buf bytes.Buffer
	buf.Grow(len(Signature) + 3*chunkOverhead + headerLen + len(compressed))
	buf.Write(Signature[:])
	writeChunk(&buf, TagIHDR, ihdr.Bytes())
	writeChunk(&buf, TagIDAT, compressed)
	writeChunk(&buf, TagIEND, nil)
	return buf.Bytes(), nil
}
