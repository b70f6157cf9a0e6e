// Command accessory-device brings up a simulated Wi-Fi accessory: accessory
// runtime, station bring-up with SoftAP provisioning, and the secure
// web server.
//
// Usage:
//
//	accessory-device [flags]
//
// Examples:
//
//	# Run with built-in defaults
//	accessory-device
//
//	# Use a configuration file and write a bring-up trace
//	accessory-device --config device.yaml --trace run.btrace
//
//	# Interactive console
//	accessory-device -i
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/dbahrdt/accessory-bringup/cmd/accessory-device/interactive"
	"github.com/dbahrdt/accessory-bringup/pkg/bringup"
	"github.com/dbahrdt/accessory-bringup/pkg/config"
)

var flags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to a YAML configuration file (defaults are used when empty)",
		EnvVars: []string{"ACCESSORY_CONFIG"},
	},
	&cli.StringFlag{
		Name:  "log-level",
		Usage: "override logging.level (debug, info, warn, error)",
	},
	&cli.BoolFlag{
		Name:  "log-json",
		Usage: "log in JSON format",
	},
	&cli.StringFlag{
		Name:  "trace",
		Usage: "write the bring-up trace to this .btrace file",
	},
	&cli.BoolFlag{
		Name:  "no-mdns",
		Usage: "disable mDNS advertisement",
	},
	&cli.BoolFlag{
		Name:    "interactive",
		Aliases: []string{"i"},
		Usage:   "start the interactive console",
	},
}

func main() {
	app := &cli.App{
		Name:   "accessory-device",
		Usage:  "Bring up a simulated Wi-Fi accessory",
		Flags:  flags,
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cCtx *cli.Context) error {
	cfg, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	var (
		out     io.Writer = os.Stderr
		console *interactive.Console
	)
	if cCtx.Bool("interactive") {
		console, err = interactive.New()
		if err != nil {
			return err
		}
		out = console.Stdout()
	}

	logger, err := bringup.NewLogger(out, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}

	bc, err := bringup.Build(cfg, bringup.Options{Logger: logger})
	if err != nil {
		logger.Error("failed to build bring-up", "error", err)
		return err
	}
	defer func() {
		if err := bc.Close(); err != nil {
			logger.Warn("shutdown incomplete", "error", err)
		}
	}()

	logger.Info("starting accessory",
		"name", cfg.Device.Name,
		"serial", cfg.Device.Serial,
		"trace_id", bc.TraceID,
		"cert_created", bc.CertCreated)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if console != nil {
		go console.Run(ctx, cancel, bc)
	}

	err = bc.Run(ctx)
	var fatal *bringup.FatalError
	if errors.As(err, &fatal) {
		logger.Error("accessory halted", "failed_component", fatal.Component, "error", fatal.Err)
		return err
	}
	if err != nil {
		return err
	}
	logger.Info("shutdown signal received")
	return nil
}

// loadConfig loads the configuration file and applies flag overrides.
func loadConfig(cCtx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(cCtx.String("config"))
	if err != nil {
		return nil, err
	}

	if lvl := cCtx.String("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if cCtx.Bool("log-json") {
		cfg.Logging.Format = "json"
	}
	if trace := cCtx.String("trace"); trace != "" {
		cfg.Logging.TraceFile = trace
	}
	if cCtx.Bool("no-mdns") {
		cfg.Discovery.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}
