//go:build ignore

// gen_fixtures writes a full-size copy of the input tree TestBuildCommand
// (cmd/micropng/build_test.go) builds, for running `micropng build` by hand.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/AnyUserName/micropng"
	"github.com/AnyUserName/micropng/internal/raster"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	os.MkdirAll(filepath.Join(dir, "cards"), 0o755)

	// Banner (JPEG, 400x225), decoded and re-encoded by the build.
	writeJPEG(filepath.Join(dir, "banner.jpg"), gradient(400, 225))

	// Cards (minimal PNG, 200x150 each)
	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("card-%d.png", i)
		save(filepath.Join(dir, "cards", name), solidWithBorder(200, 150, uint8(i*60)))
	}

	// Small RGBA grid as JSON
	writeJSON(filepath.Join(dir, "logo.json"), alphaGrid(16, 16))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 5 fixtures in %s\n", dir)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func solidWithBorder(w, h int, base uint8) micropng.Image {
	img := make(micropng.Image, h)
	for y := 0; y < h; y++ {
		img[y] = make([][]uint8, w)
		for x := 0; x < w; x++ {
			px := []uint8{base, base + 40, base + 80}
			if x < 4 || x >= w-4 || y < 4 || y >= h-4 {
				px = []uint8{255, 255, 255}
			}
			img[y][x] = px
		}
	}
	return img
}

func alphaGrid(w, h int) [][][]int {
	grid := make([][][]int, h)
	for y := 0; y < h; y++ {
		grid[y] = make([][]int, w)
		for x := 0; x < w; x++ {
			grid[y][x] = []int{220, 60, 30, x * 255 / w}
		}
	}
	return grid
}

func save(path string, img micropng.Image) {
	if err := micropng.SavePNG(path, img); err != nil {
		panic(err)
	}
}

func writeJSON(path string, grid [][][]int) {
	data, err := json.Marshal(grid)
	if err != nil {
		panic(err)
	}
	// Round-trip through the loader so a bad fixture fails here.
	if _, err := raster.FromInts(grid); err != nil {
		panic(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		panic(err)
	}
}

func writeJPEG(path string, img *image.NRGBA) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 85}); err != nil {
		panic(err)
	}
}
