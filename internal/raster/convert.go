package raster

import (
	"encoding/json"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// FromImage copies a decoded image into a grid. Channel values are
// non-premultiplied; with alpha=false the alpha channel is dropped.
func FromImage(src image.Image, alpha bool) Image {
	nrgba := imaging.Clone(src)
	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()

	channels := 3
	if alpha {
		channels = 4
	}

	img := make(Image, h)
	for y := 0; y < h; y++ {
		row := make([][]uint8, w)
		// One backing array per scanline keeps allocations at O(height).
		buf := make([]uint8, w*channels)
		off := y * nrgba.Stride
		for x := 0; x < w; x++ {
			px := buf[x*channels : (x+1)*channels : (x+1)*channels]
			copy(px, nrgba.Pix[off+x*4:off+x*4+channels])
			row[x] = px
		}
		img[y] = row
	}
	return img
}

// HasAlpha reports whether any pixel of src is not fully opaque.
func HasAlpha(src image.Image) bool {
	if o, ok := src.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := src.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}

// Gradient builds the classic 3-band test pattern: red ramps every 200
// columns, green steps per 200-column band, blue ramps every 200 rows.
func Gradient(width, height int) Image {
	img := make(Image, height)
	for y := 0; y < height; y++ {
		row := make([][]uint8, width)
		for x := 0; x < width; x++ {
			row[x] = []uint8{
				uint8(50 + x%200),
				uint8(50 + (x/200)*40),
				uint8(50 + y%200),
			}
		}
		img[y] = row
	}
	return img
}

// ReadJSON decodes a grid written as nested JSON arrays of integers.
func ReadJSON(r io.Reader) (Image, error) {
	var rows [][][]int
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode pixel grid: %w", err)
	}
	return FromInts(rows)
}
