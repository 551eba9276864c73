package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source represents a discovered input file.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory.
	RelPath string
	// Key is the output key (relpath without extension).
	Key string
	// Format is the source format (png, jpeg, gif, bmp, tiff, webp, json).
	Format string
	// Size is the file size in bytes.
	Size int64
}

// inputExtensions lists recognized input file extensions.
var inputExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".json": true,
}

// FormatOf normalizes a file extension to a format name, or "" when the
// extension is not a recognized input.
func FormatOf(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if !inputExtensions[ext] {
		return ""
	}
	format := strings.TrimPrefix(ext, ".")
	switch format {
	case "jpg":
		format = "jpeg"
	case "tif":
		format = "tiff"
	}
	return format
}

// ScanImages walks the input directory and returns all input sources.
// Sources that would map to the same output key (a.jpg next to a.png)
// get their format appended to the key, then a counter if that is
// taken as well (a.jpeg.json next to a.jpg).
func ScanImages(inputDir string) ([]Source, error) {
	var sources []Source
	seen := map[string]bool{}

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Skip hidden directories.
			if strings.HasPrefix(info.Name(), ".") && path != inputDir {
				return filepath.SkipDir
			}
			return nil
		}

		format := FormatOf(path)
		if format == "" {
			return nil
		}
		// The manifest from a previous build is not a pixel grid.
		if info.Name() == "micropng.manifest.json" {
			return nil
		}

		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}

		// Key: relative path without extension, using forward slashes.
		key := filepath.ToSlash(strings.TrimSuffix(relPath, filepath.Ext(relPath)))
		if seen[key] {
			base := key + "." + format
			key = base
			for n := 2; seen[key]; n++ {
				key = fmt.Sprintf("%s.%d", base, n)
			}
		}
		seen[key] = true

		sources = append(sources, Source{
			AbsPath: path,
			RelPath: filepath.ToSlash(relPath),
			Key:     key,
			Format:  format,
			Size:    info.Size(),
		})

		return nil
	})

	return sources, err
}
