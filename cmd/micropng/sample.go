package main

import (
	"fmt"

	"github.com/AnyUserName/micropng"
	"github.com/AnyUserName/micropng/internal/raster"
	"github.com/spf13/cobra"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write the built-in gradient test image",
	Args:  cobra.NoArgs,
	RunE:  runSample,
}

func init() {
	sampleCmd.Flags().StringP("output", "o", "/tmp/example.png", "output PNG path")
	sampleCmd.Flags().Int("width", 800, "image width")
	sampleCmd.Flags().Int("height", 600, "image height")
	rootCmd.AddCommand(sampleCmd)
}

func runSample(cmd *cobra.Command, _ []string) error {
	outputPath, _ := cmd.Flags().GetString("output")
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	if width < 1 || height < 1 {
		return fmt.Errorf("width and height must be positive, got %dx%d", width, height)
	}

	logVerbose("generating %dx%d gradient", width, height)
	if err := micropng.SavePNG(outputPath, raster.Gradient(width, height)); err != nil {
		return err
	}
	fmt.Printf("Image saved to %s\n", outputPath)
	return nil
}
