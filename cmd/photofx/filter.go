package main

import (
	"github.com/davesmith10/photofx/internal/pipeline"
	"github.com/spf13/cobra"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Convolve an image with a 3x3 kernel preset or custom weights",
	Long: `Convolve an image with a 3x3 kernel.

--kernel takes a preset name (see "photofx presets") or nine weights in
row-major order, e.g. --kernel "0,-1,0,-1,5,-1,0,-1,0". The one-pixel
border and the alpha channel are copied unchanged.`,
	RunE: runFilter,
}

func init() {
	addIOFlags(filterCmd)
	filterCmd.Flags().StringP("kernel", "k", "", "Kernel preset or nine comma separated weights")
	filterCmd.MarkFlagRequired("kernel")
	rootCmd.AddCommand(filterCmd)
}

func runFilter(cmd *cobra.Command, args []string) error {
	kernel, _ := cmd.Flags().GetString("kernel")

	cat, err := loadCatalog(cmd)
	if err != nil {
		return err
	}
	op, err := pipeline.ParseOp("kernel:"+kernel, cat)
	if err != nil {
		return err
	}
	return runPipeline(cmd, []pipeline.Op{op})
}
