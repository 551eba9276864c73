// Package raster turns a pixel grid into the filtered scanline stream that
// goes inside a PNG IDAT chunk.
//
// An Image is a slice of scanlines, each a slice of pixels, each pixel 3
// (RGB) or 4 (RGBA) channel bytes. Every scanline must have the same
// length and every pixel the same channel count as pixel (0,0).
package raster

import (
	"errors"
	"fmt"
)

// FilterNone is the only scanline filter type we emit.
const FilterNone = 0

// ErrInvalidImage is wrapped by every shape or range violation.
var ErrInvalidImage = errors.New("invalid image")

// Image is an ordered list of scanlines of pixels of channel values.
type Image [][][]uint8

// Scanlines is the filtered byte stream plus the dimensions it was built from.
type Scanlines struct {
	Width    int
	Height   int
	Channels int
	// Data holds Height rows of one filter byte followed by Width*Channels bytes.
	Data []byte
}

// RowSize returns the length of one filtered row, filter byte included.
func (s *Scanlines) RowSize() int {
	return 1 + s.Width*s.Channels
}

// Validate checks the image shape without touching the pixel values.
// The first problem found is returned.
func Validate(img Image) error {
	if len(img) == 0 {
		return fmt.Errorf("%w: no scanlines", ErrInvalidImage)
	}
	width := len(img[0])
	if width == 0 {
		return fmt.Errorf("%w: scanline 0 has no pixels", ErrInvalidImage)
	}
	channels := len(img[0][0])
	if channels != 3 && channels != 4 {
		return fmt.Errorf("%w: pixel (0,0) has %d channels, want 3 or 4", ErrInvalidImage, channels)
	}
	for y, row := range img {
		if len(row) != width {
			return fmt.Errorf("%w: scanline %d has %d pixels, want %d", ErrInvalidImage, y, len(row), width)
		}
		for x, px := range row {
			if len(px) != channels {
				return fmt.Errorf("%w: pixel (%d,%d) has %d channels, want %d",
					ErrInvalidImage, x, y, len(px), channels)
			}
		}
	}
	return nil
}

// Serialize validates img and flattens it into filtered scanlines.
// Output is a pure function of the input.
func Serialize(img Image) (*Scanlines, error) {
	if err := Validate(img); err != nil {
		return nil, err
	}

	s := &Scanlines{
		Width:    len(img[0]),
		Height:   len(img),
		Channels: len(img[0][0]),
	}
	s.Data = make([]byte, 0, s.Height*s.RowSize())
	for _, row := range img {
		s.Data = append(s.Data, FilterNone)
		for _, px := range row {
			s.Data = append(s.Data, px...)
		}
	}
	return s, nil
}

// FromInts converts an int grid, rejecting values outside [0,255].
// Shape is not checked here; Serialize does that.
func FromInts(rows [][][]int) (Image, error) {
	img := make(Image, len(rows))
	for y, row := range rows {
		img[y] = make([][]uint8, len(row))
		for x, px := range row {
			out := make([]uint8, len(px))
			for c, v := range px {
				if v < 0 || v > 255 {
					return nil, fmt.Errorf("%w: pixel (%d,%d) channel %d = %d out of range [0,255]",
						ErrInvalidImage, x, y, c, v)
				}
				out[c] = uint8(v)
			}
			img[y][x] = out
		}
	}
	return img, nil
}
