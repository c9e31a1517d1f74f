package main

import (
	"fmt"
	"os"

	"github.com/duanzhengbing/parseProtobufFile/internal/format"
	"github.com/duanzhengbing/parseProtobufFile/internal/icc"
	"github.com/duanzhengbing/parseProtobufFile/internal/ir"
	"github.com/duanzhengbing/parseProtobufFile/internal/jpeg"
	"github.com/spf13/cobra"
)

var identifyCmd = &cobra.Command{
	Use:   "identify [file]",
	Short: "Report format, dimensions and JPEG header details",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)
}

func runIdentify(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	w := cmd.OutOrStdout()

	sniffed := format.Sniff(data)
	if sniffed == "" {
		sniffed = "unknown"
	}
	field(w, "File", "%s", path)
	field(w, "Size", "%d bytes (%.1f KB)", len(data), float64(len(data))/1024)
	field(w, "Save as", "%s", format.FromFilename(path))
	field(w, "Content", "%s", sniffed)

	img, err := imgCodec.DecodeMemory(data, ir.LayoutColor)
	if err != nil {
		warnColor.Fprintf(w, "%s backend cannot decode it: %v\n", imgCodec.Name(), err)
	} else {
		field(w, "Dimensions", "%d x %d", img.Cols, img.Rows)
		img.Release()
	}

	if sniffed != "jpeg" {
		return nil
	}
	info, err := jpeg.GetInfo(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	field(w, "Components", "%d (%s)", info.NumComponents, info.ColorSpace)
	field(w, "Progressive", "%t", info.Progressive)
	if info.Quality > 0 {
		field(w, "Quality", "~%d", info.Quality)
	}
	if info.ICC == nil {
		field(w, "ICC", "none")
		return nil
	}
	p, err := icc.Parse(info.ICC)
	if err != nil {
		field(w, "ICC", "%d bytes, invalid: %v", len(info.ICC), err)
		return nil
	}
	field(w, "ICC", "%s", p)
	return nil
}
