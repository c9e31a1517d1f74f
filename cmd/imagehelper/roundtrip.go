package main

import (
	"fmt"

	"github.com/duanzhengbing/parseProtobufFile/internal/ir"
	"github.com/duanzhengbing/parseProtobufFile/internal/pipeline"
	"github.com/spf13/cobra"
)

var roundTripCmd = &cobra.Command{
	Use:   "roundtrip",
	Short: "Convert an image to floating point and back, and report the deviation",
	RunE:  runRoundTrip,
}

func init() {
	roundTripCmd.Flags().StringP("input", "i", "", "Input image")
	roundTripCmd.Flags().String("layout", "bgr", "Pixel layout to load as (rgba, bgr, gray)")
	roundTripCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(roundTripCmd)
}

func runRoundTrip(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	layoutStr, _ := cmd.Flags().GetString("layout")

	layout, err := ir.ParseLayout(layoutStr)
	if err != nil {
		return err
	}
	img, err := pipeline.Load(imgCodec, input, layout)
	if err != nil {
		return err
	}
	defer img.Release()

	d := pipeline.RoundTrip(img)
	w := cmd.OutOrStdout()
	field(w, "Image", "%dx%d %v", img.Cols, img.Rows, img.Layout)
	if d > 1 {
		warnColor.Fprintf(w, "Max deviation %d exceeds 1\n", d)
		return fmt.Errorf("float round trip deviated by %d", d)
	}
	okColor.Fprintf(w, "Max deviation %d\n", d)
	return nil
}
