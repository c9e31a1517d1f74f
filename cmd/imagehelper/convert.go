package main

import (
	"fmt"

	"github.com/duanzhengbing/parseProtobufFile/internal/icc"
	"github.com/duanzhengbing/parseProtobufFile/internal/ir"
	"github.com/duanzhengbing/parseProtobufFile/internal/pipeline"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Re-encode an image as .png or .jpg in the chosen layout",
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringP("input", "i", "", "Input image")
	convertCmd.Flags().StringP("output", "o", "", "Output image (.png or .jpg)")
	convertCmd.Flags().String("layout", "bgr", "Pixel layout to load as (rgba, bgr, gray)")
	convertCmd.Flags().String("icc", "", "ICC profile to embed in .jpg output (GRAY for gray, RGB otherwise)")
	convertCmd.MarkFlagRequired("input")
	convertCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	layoutStr, _ := cmd.Flags().GetString("layout")
	iccPath, _ := cmd.Flags().GetString("icc")

	layout, err := ir.ParseLayout(layoutStr)
	if err != nil {
		return err
	}
	opts := pipeline.Options{Layout: layout}
	if iccPath != "" {
		if opts.ICC, err = icc.Read(iccPath); err != nil {
			return fmt.Errorf("loading profile: %w", err)
		}
	}
	return runPipeline(cmd, input, output, opts)
}

// runPipeline runs one pipeline pass and prints its summary line.
func runPipeline(cmd *cobra.Command, input, output string, opts pipeline.Options) error {
	res, err := pipeline.Run(imgCodec, input, output, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	w := cmd.OutOrStdout()
	okColor.Fprintf(w, "Wrote %s", output)
	fmt.Fprintf(w, " (%dx%d %v, %d bytes, %s backend)\n", res.Cols, res.Rows, res.Layout, res.OutputSize, imgCodec.Name())
	return nil
}
