package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/AnyUserName/micropng/internal/manifest"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a built output directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// manifestPath accepts either a manifest file or a directory holding one.
func manifestPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, manifest.FileName)
	}
	return path, nil
}

func runStats(_ *cobra.Command, args []string) error {
	path, err := manifestPath(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.ReadJSON(path)
	if err != nil {
		return err
	}
	printStats(m)
	return nil
}

func printStats(m *manifest.Manifest) {
	fmt.Println()
	fmt.Printf("  Manifest version: %d\n", m.Version)
	fmt.Printf("  Generated:        %s\n", m.GeneratedAt)
	fmt.Printf("  Profile:          %s\n", m.Profile)
	fmt.Printf("  Compression:      %s\n", m.Compression)
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:          %d\n", m.BuildInfo.Workers)
	}
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Total files:      %d\n", s.TotalFiles)
	fmt.Printf("  RGB / RGBA:       %d / %d\n", s.RGBFiles, s.RGBAFiles)
	if s.Failed > 0 {
		fmt.Printf("  Failed inputs:    %d\n", s.Failed)
	}
	fmt.Printf("  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	if s.TotalInputBytes > 0 {
		ratio := float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
		fmt.Printf("  Compression:      %.1f%% of input\n", ratio)
	}
	fmt.Println()

	// Per-source-format breakdown.
	formatStats := map[string]struct {
		count int
		in    int64
		out   int64
	}{}
	for _, f := range m.Files {
		fs := formatStats[f.Source.Format]
		fs.count++
		fs.in += f.Source.Size
		fs.out += f.Size
		formatStats[f.Source.Format] = fs
	}
	formats := make([]string, 0, len(formatStats))
	for f := range formatStats {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	fmt.Println("  Source formats:")
	for _, f := range formats {
		fs := formatStats[f]
		fmt.Printf("    %-6s  %4d files  %s → %s\n", f, fs.count, formatBytes(fs.in), formatBytes(fs.out))
	}
	fmt.Println()

	// Bytes per pixel shows how well IDAT compressed.
	var pixels int64
	for _, f := range m.Files {
		pixels += int64(f.Width) * int64(f.Height)
	}
	if pixels > 0 {
		fmt.Printf("  Bytes per pixel:  %.3f\n", float64(s.TotalOutputBytes)/float64(pixels))
		fmt.Println()
	}
}
