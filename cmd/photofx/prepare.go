package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/davesmith10/photofx/internal/classify"
	"github.com/davesmith10/photofx/internal/codec"
	"github.com/spf13/cobra"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Write a classifier input tensor (raw float32 + JSON sidecar)",
	RunE:  runPrepare,
}

func init() {
	prepareCmd.Flags().StringP("input", "i", "", "Input image file")
	prepareCmd.Flags().StringP("output", "o", "", "Output raw tensor file")
	prepareCmd.Flags().Int("size", classify.InputSize, "Square input size of the model")
	prepareCmd.MarkFlagRequired("input")
	prepareCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(prepareCmd)
}

type tensorMeta struct {
	Shape     [4]int `json:"shape"`
	Layout    string `json:"layout"`
	DType     string `json:"dtype"`
	ByteOrder string `json:"byte_order"`
	Source    struct {
		Width  uint32 `json:"width"`
		Height uint32 `json:"height"`
	} `json:"source"`
}

func runPrepare(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	size, _ := cmd.Flags().GetInt("size")

	inputData, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	p, err := codec.Auto{}.Decode(inputData)
	if err != nil {
		return fmt.Errorf("decoding: %w", err)
	}

	tensor, err := classify.Preprocess(p, size)
	if err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating tensor file: %w", err)
	}
	n, err := tensor.WriteTo(out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing tensor: %w", err)
	}

	// Write JSON sidecar
	meta := tensorMeta{
		Shape:     tensor.Shape(),
		Layout:    "NHWC",
		DType:     "float32",
		ByteOrder: "little",
	}
	meta.Source.Width, meta.Source.Height = p.Width, p.Height
	metaJSON, _ := json.MarshalIndent(meta, "", "  ")
	metaPath := strings.TrimSuffix(outputPath, ".raw") + ".json"
	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return fmt.Errorf("writing sidecar: %w", err)
	}

	fmt.Printf("Prepared %dx%d → %dx%d tensor (%d bytes)\n", p.Width, p.Height, size, size, n)
	fmt.Printf("Sidecar: %s\n", metaPath)
	return nil
}
