package main

import (
	"github.com/davesmith10/photofx/internal/pipeline"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Run several transforms in order",
	Long: `Run several transforms in order. Each --op is one of:

  grayscale
  threshold[:N]
  monochrome:R,G,B
  tint:PRESET
  kernel:PRESET or kernel:W1,...,W9
  PRESET (a kernel preset name)`,
	Example: `  photofx apply -i in.jpg -o out.png --op grayscale --op sharpen --op threshold:100`,
	RunE:    runApply,
}

func init() {
	addIOFlags(applyCmd)
	applyCmd.Flags().StringArray("op", nil, "Transform to apply (repeatable)")
	applyCmd.MarkFlagRequired("op")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	specs, _ := cmd.Flags().GetStringArray("op")

	cat, err := loadCatalog(cmd)
	if err != nil {
		return err
	}
	ops, err := pipeline.ParseOps(specs, cat)
	if err != nil {
		return err
	}
	return runPipeline(cmd, ops)
}
