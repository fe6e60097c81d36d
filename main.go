package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/soocke/pixel-overlay-go/app"
	"github.com/soocke/pixel-overlay-go/config"
	"github.com/soocke/pixel-overlay-go/ui"
)

type cliOptions struct {
	configPath string
	envFile    string
	debug      bool
	detector   string
	listen     string
	dryRun     bool
	headless   bool
}

func main() {
	if err := newRootCmd(&cliOptions{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pixel-overlay",
		Short:         "Draw detected people over the screen and snap the pointer to them",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, *opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "Path to a JSON or YAML config file")
	f.StringVar(&opts.envFile, "env-file", ".env", "Dotenv file with PIXEL_OVERLAY_* overrides")
	f.BoolVar(&opts.debug, "debug", false, "Debug logging and memory diagnostics")
	f.StringVar(&opts.detector, "detector", "", "Detector backend: remote, onnx-box, onnx-pose, cvdnn, cvdnn-pose")
	f.StringVar(&opts.listen, "listen", "", "Settings server address; \"off\" disables it")
	f.BoolVar(&opts.dryRun, "dry-run", false, "Log pointer moves instead of performing them")
	f.BoolVar(&opts.headless, "headless", false, "Run without the Tk windows")
	return cmd
}

// overrides collects the flags that were given explicitly.
func overrides(cmd *cobra.Command, opts cliOptions) config.Overrides {
	var o config.Overrides
	fl := cmd.Flags()
	if fl.Changed("debug") {
		o.Debug = &opts.debug
	}
	if fl.Changed("detector") {
		o.Detector = &opts.detector
	}
	if fl.Changed("listen") {
		o.Listen = &opts.listen
	}
	if fl.Changed("dry-run") {
		o.DryRun = &opts.dryRun
	}
	if fl.Changed("headless") {
		o.Headless = &opts.headless
	}
	return o
}

func run(cmd *cobra.Command, opts cliOptions) error {
	cfg, err := config.Resolve(opts.configPath, opts.envFile, os.LookupEnv, overrides(cmd, opts))
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(os.Stdout, level)

	c, err := app.BuildContainer(cfg, opts.configPath, logger)
	if err != nil {
		return err
	}
	application := app.New(c)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Headless {
		return application.Run(ctx)
	}
	return ui.Run(ctx, application)
}
