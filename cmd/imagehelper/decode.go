package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type rawMeta struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Channels int    `json:"channels"`
	Order    string `json:"order"`
	Backend  string `json:"backend"`
}

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode an encoded image to raw pixels (raw output + JSON sidecar)",
	RunE:  runDecode,
}

func init() {
	decodeCmd.Flags().StringP("input", "i", "", "Encoded image file")
	decodeCmd.Flags().StringP("output", "o", "", "Output raw pixel file")
	decodeCmd.Flags().Int("channels", 3, "Channels per pixel: 1 (gray), 3 (B,G,R) or 4")
	decodeCmd.MarkFlagRequired("input")
	decodeCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	channels, _ := cmd.Flags().GetInt("channels")

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	d, err := imgCodec.Decode(data, channels)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, d.Pixels, 0o644); err != nil {
		return fmt.Errorf("writing raw pixels: %w", err)
	}

	meta := rawMeta{
		Width:    d.Width,
		Height:   d.Height,
		Channels: d.Channels,
		Backend:  imgCodec.Name(),
	}
	switch d.Channels {
	case 3:
		meta.Order = "bgr"
	case 4:
		meta.Order = cfg.Order().String()
	default:
		meta.Order = "gray"
	}
	metaJSON, _ := json.MarshalIndent(meta, "", "  ")
	metaPath := strings.TrimSuffix(output, ".raw") + ".json"
	if err := os.WriteFile(metaPath, metaJSON, 0o644); err != nil {
		return fmt.Errorf("writing sidecar: %w", err)
	}

	w := cmd.OutOrStdout()
	okColor.Fprintf(w, "Decoded %dx%dx%d", d.Width, d.Height, d.Channels)
	fmt.Fprintf(w, " -> %s (%d bytes)\n", output, len(d.Pixels))
	field(w, "Sidecar", "%s", metaPath)
	return nil
}
