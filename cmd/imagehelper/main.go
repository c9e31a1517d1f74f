package main

import (
	"fmt"
	"io"
	"os"

	"github.com/duanzhengbing/parseProtobufFile/internal/codec"
	"github.com/duanzhengbing/parseProtobufFile/internal/config"
	"github.com/duanzhengbing/parseProtobufFile/internal/logging"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:               "imagehelper",
	Short:             "Load, annotate and save images through the " + codec.Backend + " codec backend",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

// Set up before every subcommand runs and torn down after it.
var (
	cfg       *config.Config
	logger    *zap.Logger
	imgCodec  *codec.Helper
	okColor   = color.New(color.FgGreen, color.Bold)
	keyColor  = color.New(color.FgCyan)
	warnColor = color.New(color.FgYellow)
)

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "Rotating JSON log file")
}

func setup(cmd *cobra.Command, args []string) error {
	teardown(cmd, args)
	configPath, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")
	logFile, _ := cmd.Flags().GetString("log-file")

	c, err := config.Load(configPath, ".env")
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if logFile != "" {
		c.Log.File = logFile
	}
	if err := c.Validate(); err != nil {
		return err
	}
	log, err := logging.New(logging.Options{Level: c.Log.Level, File: c.Log.File, Console: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	h, err := codec.New(
		codec.WithLogger(log),
		codec.WithOrder(c.Order()),
		codec.WithJPEGQuality(c.JPEGQuality),
	)
	if err != nil {
		return fmt.Errorf("starting %s backend: %w", codec.Backend, err)
	}
	cfg, logger, imgCodec = c, log, h
	log.Debug("backend ready", zap.String("order", c.Order().String()), zap.Int("jpeg_quality", c.JPEGQuality))
	return nil
}

func teardown(cmd *cobra.Command, args []string) {
	if imgCodec != nil {
		imgCodec.Close()
		imgCodec = nil
	}
	if logger != nil {
		_ = logger.Sync()
		logger = nil
	}
}

// field prints one aligned "Key: value" report line.
func field(w io.Writer, key, format string, args ...any) {
	keyColor.Fprintf(w, "%-12s", key+":")
	fmt.Fprintf(w, format+"\n", args...)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
