package main

import (
	"github.com/duanzhengbing/parseProtobufFile/internal/ir"
	"github.com/duanzhengbing/parseProtobufFile/internal/pipeline"
	"github.com/spf13/cobra"
)

var maskCmd = &cobra.Command{
	Use:   "mask",
	Short: "Black out every pixel where the mask image is black",
	RunE:  runMask,
}

func init() {
	maskCmd.Flags().StringP("input", "i", "", "Input image")
	maskCmd.Flags().StringP("mask", "m", "", "Mask image of the same size")
	maskCmd.Flags().StringP("output", "o", "", "Output image (.png or .jpg)")
	maskCmd.MarkFlagRequired("input")
	maskCmd.MarkFlagRequired("mask")
	maskCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(maskCmd)
}

func runMask(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	maskPath, _ := cmd.Flags().GetString("mask")
	output, _ := cmd.Flags().GetString("output")
	return runPipeline(cmd, input, output, pipeline.Options{
		Layout:   ir.LayoutColor,
		MaskPath: maskPath,
	})
}
