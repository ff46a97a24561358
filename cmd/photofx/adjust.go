package main

import (
	"fmt"

	"github.com/davesmith10/photofx/internal/pipeline"
	"github.com/spf13/cobra"
)

var adjustCmd = &cobra.Command{
	Use:   "adjust",
	Short: "Apply a per-pixel color transform (grayscale, monochrome, threshold, tint)",
	RunE:  runAdjust,
}

func init() {
	addIOFlags(adjustCmd)
	adjustCmd.Flags().String("op", "", "Transform: grayscale, monochrome, threshold or tint")
	adjustCmd.Flags().Uint8("threshold", 128, "Cutoff for threshold")
	adjustCmd.Flags().String("offsets", "0,0,0", "r,g,b offsets for monochrome")
	adjustCmd.Flags().String("tint", "ocean-blue", "Tint preset name")
	adjustCmd.MarkFlagRequired("op")
	rootCmd.AddCommand(adjustCmd)
}

func runAdjust(cmd *cobra.Command, args []string) error {
	opName, _ := cmd.Flags().GetString("op")
	cutoff, _ := cmd.Flags().GetUint8("threshold")
	offsets, _ := cmd.Flags().GetString("offsets")
	tint, _ := cmd.Flags().GetString("tint")

	var spec string
	switch opName {
	case "grayscale":
		spec = "grayscale"
	case "threshold":
		spec = fmt.Sprintf("threshold:%d", cutoff)
	case "monochrome":
		spec = "monochrome:" + offsets
	case "tint":
		spec = "tint:" + tint
	default:
		return fmt.Errorf("unknown transform %q (want grayscale, monochrome, threshold or tint)", opName)
	}

	cat, err := loadCatalog(cmd)
	if err != nil {
		return err
	}
	op, err := pipeline.ParseOp(spec, cat)
	if err != nil {
		return err
	}
	return runPipeline(cmd, []pipeline.Op{op})
}
