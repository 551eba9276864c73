package pipeline

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/AnyUserName/micropng"
	"github.com/AnyUserName/micropng/internal/encoder"
	"github.com/AnyUserName/micropng/internal/hasher"
	"github.com/AnyUserName/micropng/internal/manifest"
	"github.com/AnyUserName/micropng/internal/profile"
	"github.com/AnyUserName/micropng/internal/raster"
	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// processResult holds the result of converting a single source.
type processResult struct {
	key  string
	file manifest.File
	err  error
}

// Load reads an input file into a pixel grid. Image files are decoded,
// downscaled per the profile and flattened to RGB, or RGBA when the
// profile keeps alpha and the source has any. JSON grids are taken as is.
func Load(path string, prof profile.Profile) (micropng.Image, manifest.Source, error) {
	src := manifest.Source{Path: path, Format: FormatOf(path)}

	f, err := os.Open(path)
	if err != nil {
		return nil, src, err
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil {
		src.Size = info.Size()
	}

	if src.Format == "json" {
		grid, err := raster.ReadJSON(f)
		if err != nil {
			return nil, src, err
		}
		if len(grid) > 0 {
			src.Width, src.Height = len(grid[0]), len(grid)
		}
		return grid, src, nil
	}

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, src, fmt.Errorf("decode: %w", err)
	}
	src.Format = format

	bounds := img.Bounds()
	src.Width, src.Height = bounds.Dx(), bounds.Dy()
	alpha := prof.Alpha && raster.HasAlpha(img)

	if w, h := prof.TargetSize(src.Width, src.Height); w != src.Width || h != src.Height {
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}
	return raster.FromImage(img, alpha), src, nil
}

// processImage handles a single source: load, encode, write, hash.
func processImage(s Source, cfg Config, enc *micropng.Encoder) processResult {
	result := processResult{key: s.Key}

	grid, src, err := Load(s.AbsPath, cfg.Profile)
	if err != nil {
		result.err = fmt.Errorf("load %s: %w", s.RelPath, err)
		return result
	}
	src.Path = s.RelPath

	data, err := enc.Encode(grid)
	if err != nil {
		result.err = fmt.Errorf("encode %s: %w", s.RelPath, err)
		return result
	}

	relPath := s.Key + ".png"
	outPath := filepath.Join(cfg.OutputDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		result.err = fmt.Errorf("create dir for %s: %w", relPath, err)
		return result
	}
	if err := encoder.WriteFile(outPath, data); err != nil {
		result.err = fmt.Errorf("write %s: %w", relPath, err)
		return result
	}

	result.file = manifest.File{
		Source:   src,
		Width:    len(grid[0]),
		Height:   len(grid),
		Channels: len(grid[0][0]),
		Size:     int64(len(data)),
		Hash:     hasher.ContentHash(data, 16),
		Path:     relPath,
	}
	return result
}
