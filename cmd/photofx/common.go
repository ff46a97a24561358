package main

import (
	"context"
	"fmt"
	"os"

	"github.com/davesmith10/photofx/internal/catalog"
	"github.com/davesmith10/photofx/internal/codec"
	"github.com/davesmith10/photofx/internal/color"
	"github.com/davesmith10/photofx/internal/pipeline"
	"github.com/davesmith10/photofx/internal/transform"
	"github.com/spf13/cobra"
)

// addIOFlags registers the input/output flags shared by the commands that
// run a pipeline.
func addIOFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "Input image file")
	cmd.Flags().StringP("output", "o", "", "Output image file")
	cmd.Flags().String("format", "", "Output format (png, jpeg, bmp, tiff); default from output extension")
	cmd.Flags().Int("quality", 85, "JPEG quality (1-100)")
	cmd.Flags().Bool("subsample", false, "Use 4:2:0 chroma subsampling for JPEG output")
	cmd.Flags().Bool("progressive", false, "Write progressive JPEG output")
	cmd.Flags().String("src-profile", "", "Source RGB ICC profile override for JPEG input")
	cmd.Flags().String("intent", "perceptual", "Rendering intent for embedded ICC profiles (perceptual, relative, saturation, absolute)")
	cmd.Flags().Bool("embed-srgb", false, "Embed an sRGB ICC profile in JPEG output")
	cmd.Flags().String("engine", "compat", "Color engine: compat (matches the reference editor) or corrected")
	cmd.Flags().Int("workers", 0, "Goroutines for convolution (0 = sequential)")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
}

func loadCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	cat := catalog.Default()
	path, _ := cmd.Flags().GetString("catalog")
	if path != "" {
		if err := cat.LoadFile(path); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

func configFromFlags(cmd *cobra.Command) (pipeline.Config, error) {
	engineName, _ := cmd.Flags().GetString("engine")
	workers, _ := cmd.Flags().GetInt("workers")

	engine, ok := transform.ByName(engineName)
	if !ok {
		return pipeline.Config{}, fmt.Errorf("unknown engine %q (want compat or corrected)", engineName)
	}
	if workers < 0 {
		return pipeline.Config{}, fmt.Errorf("workers must be >= 0, got %d", workers)
	}
	return pipeline.Config{Engine: engine, Workers: workers}, nil
}

func jpegFromFlags(cmd *cobra.Command) (*codec.JPEG, error) {
	quality, _ := cmd.Flags().GetInt("quality")
	intentStr, _ := cmd.Flags().GetString("intent")
	embed, _ := cmd.Flags().GetBool("embed-srgb")
	subsample, _ := cmd.Flags().GetBool("subsample")
	progressive, _ := cmd.Flags().GetBool("progressive")
	srcProfilePath, _ := cmd.Flags().GetString("src-profile")

	intent, err := color.ParseIntent(intentStr)
	if err != nil {
		return nil, err
	}
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("quality must be 1-100, got %d", quality)
	}

	var srcProfile []byte
	if srcProfilePath != "" {
		srcProfile, _, err = color.LoadProfile(srcProfilePath)
		if err != nil {
			return nil, fmt.Errorf("loading source profile: %w", err)
		}
	}

	return &codec.JPEG{
		Intent:        intent,
		SourceProfile: srcProfile,
		Quality:       quality,
		Subsample:     subsample,
		Progressive:   progressive,
		EmbedSRGB:     embed,
	}, nil
}

func encoderFromFlags(cmd *cobra.Command, j *codec.JPEG) (codec.Encoder, error) {
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format, _ = cmd.Flags().GetString("output")
	}
	enc, err := codec.FormatFor(format)
	if err != nil {
		return nil, err
	}
	if _, ok := enc.(*codec.JPEG); ok {
		return j, nil
	}
	return enc, nil
}

// runPipeline reads the input, applies ops and writes the output.
func runPipeline(cmd *cobra.Command, ops []pipeline.Op) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")

	cfg, err := configFromFlags(cmd)
	if err != nil {
		return err
	}
	j, err := jpegFromFlags(cmd)
	if err != nil {
		return err
	}
	enc, err := encoderFromFlags(cmd, j)
	if err != nil {
		return err
	}

	inputData, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := pipeline.Run(ctx, inputData, pipeline.Options{
		Ops:     ops,
		Config:  cfg,
		Decoder: codec.Auto{JPEG: j},
		Encoder: enc,
	})
	if err != nil {
		return fmt.Errorf("processing: %w", err)
	}

	if err := os.WriteFile(outputPath, result.Data, 0644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	fmt.Printf("Processed %dx%d (%s engine)\n", result.Width, result.Height, cfg.Engine.Name())
	for _, name := range result.Applied {
		fmt.Printf("  applied %s\n", name)
	}
	fmt.Printf("Input:  %s (%d bytes)\n", inputPath, len(inputData))
	fmt.Printf("Output: %s (%d bytes, %s)\n", outputPath, len(result.Data), enc.MediaType())
	return nil
}
