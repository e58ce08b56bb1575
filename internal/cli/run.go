package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/forPelevin/shortreel/internal/config"
	"github.com/forPelevin/shortreel/internal/logging"
	"github.com/forPelevin/shortreel/internal/pipeline"
)

const envConfig = "SHORTREEL_CONFIG"

func run(cmd *cobra.Command, manifest string) error {
	outPath, _ := cmd.Flags().GetString("out")
	outDir, _ := cmd.Flags().GetString("out-dir")
	cfgPath, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")
	logFormat, _ := cmd.Flags().GetString("log-format")

	if cfgPath == "" {
		cfgPath = os.Getenv(envConfig)
	}
	app, resolved, exists, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	subtitles := app.Subtitles.Enabled
	if cmd.Flags().Changed("subtitles") {
		subtitles, _ = cmd.Flags().GetBool("subtitles")
	}
	if logLevel == "" {
		logLevel = app.Logging.Level
	}
	if logFormat == "" {
		logFormat = app.Logging.Format
	}

	stderr := cmd.ErrOrStderr()
	logger, err := logging.New(logging.Options{Level: logLevel, Format: logFormat, Writer: stderr})
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if exists {
		logger.Debug("config loaded", "path", resolved)
	}

	absManifest, err := filepath.Abs(manifest)
	if err != nil {
		return err
	}
	if outPath != "" {
		if outPath, err = filepath.Abs(outPath); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, time.Hour)
	defer cancel()

	interactive := false
	if f, ok := stderr.(*os.File); ok {
		interactive = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	var view progressView
	if interactive && logFormat != "json" {
		view = newBarView(stderr)
	} else {
		view = newLogView(logger)
	}

	cfg := pipeline.Config{
		Manifest:         absManifest,
		OutPath:          outPath,
		OutDir:           outDir,
		IncludeSubtitles: subtitles,
		App:              app,
		Logger:           logger,
		Progress:         view,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	sum, err := pipeline.Run(ctx, cfg)
	view.Close(err == nil)
	if err != nil {
		return err
	}
	return renderSummary(cmd.OutOrStdout(), sum)
}
