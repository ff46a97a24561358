package main

import (
	"bytes"
	"fmt"
	"image"
	"os"

	"github.com/davesmith10/photofx/internal/codec"
	"github.com/davesmith10/photofx/internal/color"
	"github.com/davesmith10/photofx/internal/jpeg"
	"github.com/spf13/cobra"
)

var identifyCmd = &cobra.Command{
	Use:   "identify [file]",
	Short: "Inspect image dimensions and ICC profile info",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentify,
}

func init() {
	identifyCmd.Flags().String("src-profile", "", "Source RGB ICC profile override to report against")
	rootCmd.AddCommand(identifyCmd)
}

func runIdentify(cmd *cobra.Command, args []string) error {
	path := args[0]
	srcProfilePath, _ := cmd.Flags().GetString("src-profile")

	var override *color.ProfileInfo
	if srcProfilePath != "" {
		var err error
		if _, override, err = color.LoadProfile(srcProfilePath); err != nil {
			return fmt.Errorf("loading source profile: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	fmt.Printf("File:       %s\n", path)
	fmt.Printf("File size:  %d bytes (%.1f MB)\n", len(data), float64(len(data))/(1024*1024))

	if !codec.IsJPEG(data) {
		cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		fmt.Printf("Format:     %s\n", format)
		fmt.Printf("Dimensions: %d x %d\n", cfg.Width, cfg.Height)
		fmt.Printf("Buffer:     %d bytes as RGBA\n", cfg.Width*cfg.Height*4)
		return nil
	}

	info, err := jpeg.GetInfo(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	fmt.Printf("Format:     jpeg (progressive: %t)\n", info.Progressive)
	fmt.Printf("Dimensions: %d x %d\n", info.Width, info.Height)
	fmt.Printf("Components: %d\n", info.NumComponents)
	fmt.Printf("Color space: %s\n", info.ColorSpace)
	fmt.Printf("Buffer:     %d bytes as RGBA\n", info.Width*info.Height*4)
	if !info.Decodable() {
		fmt.Println("Decoder:    pure Go (libjpeg cannot convert this color space to RGB)")
	}

	switch {
	case info.ICC == nil:
		fmt.Println("ICC profile: none")
	default:
		pi, err := color.ParseProfileInfo(info.ICC)
		if err != nil {
			fmt.Printf("ICC profile: present (%d bytes) but invalid: %v\n", len(info.ICC), err)
			break
		}
		fmt.Printf("ICC profile: %d bytes\n", len(info.ICC))
		printProfile(pi)
		if pi.IsRGB() && override == nil {
			fmt.Println("  Converted to sRGB on load")
		}
	}

	if override != nil {
		fmt.Printf("Source profile override: %s\n", srcProfilePath)
		printProfile(override)
		fmt.Println("  Converted to sRGB on load")
	}
	return nil
}

func printProfile(pi *color.ProfileInfo) {
	fmt.Printf("  Version:     %s\n", pi.Version)
	fmt.Printf("  Color space: %s\n", color.ColorSpaceName(pi.ColorSpace))
	fmt.Printf("  PCS:         %s\n", color.ColorSpaceName(pi.PCS))
	fmt.Printf("  Class:       %s\n", color.ProfileClassName(pi.Class))
}
