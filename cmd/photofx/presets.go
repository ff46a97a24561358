package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List kernel and tint presets",
	Args:  cobra.NoArgs,
	RunE:  runPresets,
}

func init() {
	presetsCmd.Flags().Bool("json", false, "Print the catalog as JSON (loadable with --catalog)")
	rootCmd.AddCommand(presetsCmd)
}

func runPresets(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	cat, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	if asJSON {
		doc := struct {
			Kernels map[string][]float32 `json:"kernels"`
			Tints   any                  `json:"tints"`
		}{Kernels: make(map[string][]float32, len(cat.Kernels)), Tints: cat.Tints}
		for name, k := range cat.Kernels {
			doc.Kernels[name] = k[:]
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	fmt.Println("Kernels:")
	for _, name := range cat.KernelNames() {
		k := cat.Kernels[name]
		fmt.Printf("  %-16s %s (sum %g)\n", name, k, k.Sum())
	}
	fmt.Println("Tints:")
	for _, name := range cat.TintNames() {
		o := cat.Tints[name]
		fmt.Printf("  %-16s r+%d g+%d b+%d\n", name, o.R, o.G, o.B)
	}
	return nil
}
