package main

import (
	"fmt"
	"os"

	"github.com/davesmith10/photofx/internal/codec"
	"github.com/spf13/cobra"
)

var dataURLCmd = &cobra.Command{
	Use:   "dataurl [file]",
	Short: "Print an image as a base64 PNG data URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runDataURL,
}

func init() {
	rootCmd.AddCommand(dataURLCmd)
}

func runDataURL(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	p, err := codec.Auto{}.Decode(data)
	if err != nil {
		return fmt.Errorf("decoding: %w", err)
	}
	url, err := codec.DataURL(p, codec.PNG)
	if err != nil {
		return err
	}
	fmt.Println(url)
	return nil
}
