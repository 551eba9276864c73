package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/AnyUserName/micropng/internal/manifest"
	"github.com/AnyUserName/micropng/internal/pipeline"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build <input_dir>",
	Short: "Convert every image in a directory tree to a minimal PNG",
	Long: `Scans input directory for images (png, jpg, jpeg, webp, gif, bmp, tiff)
and JSON pixel grids, writes one minimal PNG per input under the output
directory (same relative path, .png extension) and a manifest file.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("out", "o", "./micropng_out", "output directory")
	buildCmd.Flags().IntP("workers", "w", 0, "parallel workers (0 = NumCPU)")
	addProfileFlags(buildCmd)
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	inputDir := args[0]
	outDir, _ := cmd.Flags().GetString("out")
	workers, _ := cmd.Flags().GetInt("workers")
	start := time.Now()

	// Resolve absolute paths.
	absInput, err := filepath.Abs(inputDir)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	prof, err := resolveProfile(cmd)
	if err != nil {
		return err
	}

	logVerbose("input:   %s", absInput)
	logVerbose("output:  %s", absOutput)
	logVerbose("profile: %s (level=%d, max-width=%d, alpha=%v)", prof.Name, prof.Level, prof.MaxWidth, prof.Alpha)

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p := pipeline.New(pipeline.Config{
		InputDir:  absInput,
		OutputDir: absOutput,
		Profile:   prof,
		Workers:   workers,
		Verbose:   verbose,
	})

	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	manifestPath := filepath.Join(absOutput, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printBuildReport(m, time.Since(start))
	return nil
}

func printBuildReport(m *manifest.Manifest, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("  micropng build complete")
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Files:       %d  (%d RGB, %d RGBA)\n", s.TotalFiles, s.RGBFiles, s.RGBAFiles)
	if s.Failed > 0 {
		fmt.Printf("  Failed:      %d\n", s.Failed)
	}
	fmt.Printf("  Input size:  %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(s.TotalOutputBytes))
	if s.TotalInputBytes > 0 {
		ratio := float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
		fmt.Printf("  Ratio:       %.1f%% of input\n", ratio)
	}
	fmt.Printf("  Compression: %s\n", m.Compression)
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:     %d\n", m.BuildInfo.Workers)
	}
	fmt.Println()

	// Top 10 largest outputs.
	if len(m.Files) > 0 {
		keys := make([]string, 0, len(m.Files))
		for k := range m.Files {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			return m.Files[keys[i]].Size > m.Files[keys[j]].Size
		})
		n := len(keys)
		if n > 10 {
			n = 10
		}
		fmt.Printf("  Top %d largest (input → png):\n", n)
		for _, k := range keys[:n] {
			f := m.Files[k]
			fmt.Printf("    %-40s %8s → %8s  %dx%d\n",
				truncKey(k, 40), formatBytes(f.Source.Size), formatBytes(f.Size), f.Width, f.Height)
		}
		fmt.Println()
	}

	fmt.Printf("  Manifest:    %s\n", manifest.FileName)
	fmt.Println()
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
