package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/AnyUserName/micropng"
	"github.com/AnyUserName/micropng/internal/pipeline"
	"github.com/AnyUserName/micropng/internal/profile"
	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode <input>",
	Short: "Convert one image or JSON pixel grid to a minimal PNG",
	Long: `Reads an image (png, jpeg, gif, bmp, tiff, webp) or a JSON pixel grid
([[[r,g,b], ...], ...] with 3 or 4 values per pixel) and writes it as a
minimal PNG. The output defaults to the input name with a .png extension.`,
	Args: cobra.ExactArgs(1),
	RunE: runEncode,
}

func init() {
	encodeCmd.Flags().StringP("output", "o", "", "output PNG path")
	addProfileFlags(encodeCmd)
	rootCmd.AddCommand(encodeCmd)
}

// addProfileFlags registers the flags shared by encode and build.
func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("profile", "p", "default", "encoding profile (default, fast, best, store, thumbnail)")
	cmd.Flags().String("level", "", "compression level override (none, fast, default, best)")
	cmd.Flags().String("alpha", "auto", "alpha channel: auto keeps it when present, off drops it")
	cmd.Flags().Int("max-width", -1, "downscale wider images to this width (0 = never, -1 = profile)")
}

// resolveProfile applies flag overrides to the named profile.
func resolveProfile(cmd *cobra.Command) (profile.Profile, error) {
	name, _ := cmd.Flags().GetString("profile")
	levelName, _ := cmd.Flags().GetString("level")
	alpha, _ := cmd.Flags().GetString("alpha")
	maxWidth, _ := cmd.Flags().GetInt("max-width")

	prof := profile.Get(name)
	if levelName != "" {
		level, ok := profile.ParseLevel(levelName)
		if !ok {
			return prof, fmt.Errorf("unknown compression level %q", levelName)
		}
		prof.Level = level
	}
	switch alpha {
	case "auto":
	case "off":
		prof.Alpha = false
	default:
		return prof, fmt.Errorf("--alpha must be auto or off, got %q", alpha)
	}
	if maxWidth >= 0 {
		prof.MaxWidth = maxWidth
	}
	return prof, nil
}

func runEncode(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".png"
	}
	if filepath.Clean(outputPath) == filepath.Clean(inputPath) {
		return fmt.Errorf("output would overwrite input %s; pass -o", inputPath)
	}

	prof, err := resolveProfile(cmd)
	if err != nil {
		return err
	}
	logVerbose("profile: %s (level=%d, max-width=%d, alpha=%v)", prof.Name, prof.Level, prof.MaxWidth, prof.Alpha)

	grid, src, err := pipeline.Load(inputPath, prof)
	if err != nil {
		return fmt.Errorf("load %s: %w", inputPath, err)
	}
	logVerbose("input:   %s (%s, %dx%d, %s)", inputPath, src.Format, src.Width, src.Height, formatBytes(src.Size))

	enc := &micropng.Encoder{CompressionLevel: prof.Level}
	if err := enc.Save(outputPath, grid); err != nil {
		return err
	}

	fmt.Printf("Wrote %s (%dx%d, %d channels)\n", outputPath, len(grid[0]), len(grid), len(grid[0][0]))
	return nil
}
