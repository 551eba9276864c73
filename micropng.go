// Package micropng writes in-memory RGB and RGBA pixel grids as minimal
// PNG files: signature, IHDR, one IDAT and IEND, 8 bits per channel,
// filter type None, no interlacing.
//
//	img := micropng.Image{{{255, 0, 0}, {0, 255, 0}}}
//	if err := micropng.SavePNG("out.png", img); err != nil {
//		log.Fatal(err)
//	}
package micropng

import (
	"errors"

	"github.com/AnyUserName/micropng/internal/encoder"
	"github.com/AnyUserName/micropng/internal/raster"
)

// Image is a list of scanlines; each scanline is a list of pixels; each
// pixel holds 3 (RGB) or 4 (RGBA) channel values.
type Image = raster.Image

// CompressionLevel trades encoding speed for file size.
type CompressionLevel int

const (
	DefaultCompression CompressionLevel = 0
	NoCompression      CompressionLevel = -1
	BestSpeed          CompressionLevel = -2
	BestCompression    CompressionLevel = -3
)

func (l CompressionLevel) zlib() int {
	switch l {
	case NoCompression:
		return encoder.NoCompression
	case BestSpeed:
		return encoder.BestSpeed
	case BestCompression:
		return encoder.BestCompression
	default:
		return encoder.DefaultCompression
	}
}

// Compressor turns the filtered scanline stream into IDAT data. Its
// output must be a zlib stream; Name appears in build manifests.
type Compressor = encoder.Compressor

// NewZlib returns the zlib Compressor used by the zero Encoder, at the
// given level.
func NewZlib(level CompressionLevel) Compressor {
	return encoder.NewZlib(level.zlib())
}

// Encoder configures PNG encoding. The zero value is ready to use.
type Encoder struct {
	CompressionLevel CompressionLevel

	// Compressor overrides CompressionLevel when set.
	Compressor Compressor
}

func (e *Encoder) compressor() Compressor {
	if e.Compressor != nil {
		return e.Compressor
	}
	return NewZlib(e.CompressionLevel)
}

// CompressorName identifies the compressor Encode will use.
func (e *Encoder) CompressorName() string {
	return e.compressor().Name()
}

// Encode returns the PNG file bytes for img.
func (e *Encoder) Encode(img Image) ([]byte, error) {
	s, err := raster.Serialize(img)
	if err != nil {
		return nil, &ValidationError{Err: err}
	}
	data, err := encoder.Encode(s.Width, s.Height, s.Channels, s.Data, e.compressor())
	if err != nil {
		return nil, classify(err)
	}
	return data, nil
}

// Save encodes img and writes it to path. The file is replaced
// atomically; on error no partial PNG is left at path.
func (e *Encoder) Save(path string, img Image) error {
	data, err := e.Encode(img)
	if err != nil {
		return err
	}
	if err := encoder.WriteFile(path, data); err != nil {
		return &IOError{Path: path, Err: err}
	}
	return nil
}

// EncodePNG encodes img with default settings.
func EncodePNG(img Image) ([]byte, error) {
	var e Encoder
	return e.Encode(img)
}

// SavePNG encodes img with default settings and writes it to path.
func SavePNG(path string, img Image) error {
	var e Encoder
	return e.Save(path, img)
}

func classify(err error) error {
	switch {
	case errors.Is(err, encoder.ErrUnsupportedChannels), errors.Is(err, encoder.ErrBadDimensions):
		return &ValidationError{Err: err}
	default:
		return &CodecError{Err: err}
	}
}
