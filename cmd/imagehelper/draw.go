package main

import (
	"github.com/duanzhengbing/parseProtobufFile/internal/ir"
	"github.com/duanzhengbing/parseProtobufFile/internal/pipeline"
	"github.com/spf13/cobra"
)

var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Outline rectangles and mark points on an image",
	RunE:  runDraw,
}

func init() {
	drawCmd.Flags().StringP("input", "i", "", "Input image")
	drawCmd.Flags().StringP("output", "o", "", "Output image (.png or .jpg)")
	drawCmd.Flags().String("layout", "rgba", "Pixel layout to draw in (rgba, bgr, gray)")
	drawCmd.Flags().StringArray("rect", nil, "Rectangle top,left,right,bottom (repeatable)")
	drawCmd.Flags().StringArray("point", nil, "Point x,y (repeatable)")
	drawCmd.Flags().Int("roll", 0, "Rotate rectangles by this many degrees")
	drawCmd.Flags().Int("stroke", 0, "Stroke width (default from config)")
	drawCmd.Flags().String("color", "0,255,0", "Stroke colour b,g,r[,a]")
	drawCmd.MarkFlagRequired("input")
	drawCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(drawCmd)
}

func runDraw(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	layoutStr, _ := cmd.Flags().GetString("layout")
	rects, _ := cmd.Flags().GetStringArray("rect")
	points, _ := cmd.Flags().GetStringArray("point")
	roll, _ := cmd.Flags().GetInt("roll")
	stroke, _ := cmd.Flags().GetInt("stroke")
	colorStr, _ := cmd.Flags().GetString("color")

	layout, err := ir.ParseLayout(layoutStr)
	if err != nil {
		return err
	}
	c, err := ir.ParseColorQuad(colorStr)
	if err != nil {
		return err
	}
	if stroke <= 0 {
		stroke = cfg.StrokeWidth
	}
	opts := pipeline.Options{Layout: layout, StrokeWidth: stroke, Color: c}
	for _, s := range rects {
		r, err := parseRect(s, roll)
		if err != nil {
			return err
		}
		opts.Rects = append(opts.Rects, r)
	}
	for _, s := range points {
		p, err := parsePoint(s)
		if err != nil {
			return err
		}
		opts.Points = append(opts.Points, p)
	}
	return runPipeline(cmd, input, output, opts)
}
