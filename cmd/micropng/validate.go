package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/micropng/internal/encoder"
	"github.com/AnyUserName/micropng/internal/hasher"
	"github.com/AnyUserName/micropng/internal/manifest"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <manifest_or_png>",
	Short: "Check a manifest's files, or a single PNG, for intact chunk framing",
	Long: `Given a manifest (or a directory holding one), checks that every listed
PNG exists, matches its recorded size and hash, starts with the PNG
signature and has a valid CRC on every chunk.

Given a .png file, checks only that file's framing.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	if filepath.Ext(args[0]) == ".png" {
		return validateSingle(args[0])
	}

	path, err := manifestPath(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.ReadJSON(path)
	if err != nil {
		return err
	}

	errors := validateManifest(m, filepath.Dir(path))
	if len(errors) == 0 {
		fmt.Println("  ✓ Manifest is valid")
		fmt.Printf("  ✓ %d files — all present with intact chunks\n", m.Stats.TotalFiles)
		return nil
	}

	fmt.Printf("  ✗ Manifest has %d error(s):\n", len(errors))
	for _, e := range errors {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errors))
}

func validateSingle(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	h, err := checkPNG(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Printf("  ✓ %s: %dx%d, %d channels, %d bytes\n",
		path, h.Width, h.Height, encoder.Channels(h.ColorType), len(data))
	return nil
}

// checkPNG verifies framing and returns the parsed IHDR.
func checkPNG(data []byte) (encoder.Header, error) {
	chunks, err := encoder.Inspect(data)
	if err != nil {
		return encoder.Header{}, err
	}
	if len(chunks) == 0 || chunks[0].Tag != encoder.TagIHDR {
		return encoder.Header{}, fmt.Errorf("first chunk is not IHDR")
	}
	if len(encoder.IDAT(chunks)) == 0 {
		return encoder.Header{}, fmt.Errorf("no IDAT data")
	}
	return encoder.ParseHeader(chunks[0].Payload)
}

func validateManifest(m *manifest.Manifest, baseDir string) []string {
	var errs []string

	if m.Version != manifest.SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	seenPaths := map[string]bool{}
	for key, f := range m.Files {
		if f.Channels != 3 && f.Channels != 4 {
			errs = append(errs, fmt.Sprintf("file %q: invalid channel count %d", key, f.Channels))
		}
		if f.Width <= 0 || f.Height <= 0 {
			errs = append(errs, fmt.Sprintf("file %q: invalid dimensions %dx%d", key, f.Width, f.Height))
		}
		if f.Path == "" {
			errs = append(errs, fmt.Sprintf("file %q: missing path", key))
			continue
		}
		if seenPaths[f.Path] {
			errs = append(errs, fmt.Sprintf("file %q: duplicate path %q", key, f.Path))
		}
		seenPaths[f.Path] = true

		path := filepath.Join(baseDir, filepath.FromSlash(f.Path))
		if f.Hash != "" {
			sum, err := hasher.FileHash(path, len(f.Hash))
			if err != nil {
				errs = append(errs, fmt.Sprintf("file %q: not found: %s", key, f.Path))
				continue
			}
			if sum != f.Hash {
				errs = append(errs, fmt.Sprintf("file %q: hash mismatch: manifest=%s, disk=%s", key, f.Hash, sum))
			}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Sprintf("file %q: not found: %s", key, f.Path))
			continue
		}
		if f.Size > 0 && int64(len(data)) != f.Size {
			errs = append(errs, fmt.Sprintf("file %q: size mismatch: manifest=%d, disk=%d", key, f.Size, len(data)))
		}

		h, err := checkPNG(data)
		if err != nil {
			errs = append(errs, fmt.Sprintf("file %q: %v", key, err))
			continue
		}
		if int(h.Width) != f.Width || int(h.Height) != f.Height || encoder.Channels(h.ColorType) != f.Channels {
			errs = append(errs, fmt.Sprintf("file %q: IHDR %dx%d/%d ch, manifest %dx%d/%d ch",
				key, h.Width, h.Height, encoder.Channels(h.ColorType), f.Width, f.Height, f.Channels))
		}
	}

	// Verify stats consistency.
	if m.Stats.TotalFiles != len(m.Files) {
		errs = append(errs, fmt.Sprintf("stats.total_files mismatch: %d != %d", m.Stats.TotalFiles, len(m.Files)))
	}

	return errs
}
