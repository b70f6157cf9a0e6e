// Command accessory-trace views and analyzes bring-up trace files.
//
// Trace files are written by accessory-device when started with --trace
// (or logging.trace_file in the configuration).
//
// Usage:
//
//	accessory-trace <command> [flags] <file.btrace>
//
// Examples:
//
//	# View all events
//	accessory-trace view run.btrace
//
//	# View only provisioning state changes
//	accessory-trace view --component provisioning --category state run.btrace
//
//	# Export to CSV
//	accessory-trace export --format csv -o run.csv run.btrace
//
//	# Keep one run only
//	accessory-trace filter --trace-id 1f0c... -o one.btrace run.btrace
//
//	# Show statistics
//	accessory-trace stats run.btrace
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dbahrdt/accessory-bringup/cmd/accessory-trace/commands"
)

var filterFlags = []cli.Flag{
	&cli.StringFlag{Name: "trace-id", Usage: "filter by bring-up run"},
	&cli.StringFlag{Name: "device-id", Usage: "filter by device ID"},
	&cli.StringFlag{Name: "component", Usage: "filter by component (router, network, provisioning, accessory, server, orchestrator)"},
	&cli.StringFlag{Name: "category", Usage: "filter by category (dispatch, state, error)"},
	&cli.StringFlag{Name: "source", Usage: "filter dispatches by event source (e.g. WIFI_EVENT)"},
	&cli.StringFlag{Name: "time-start", Usage: "only events at or after this RFC 3339 time"},
	&cli.StringFlag{Name: "time-end", Usage: "only events before this RFC 3339 time"},
}

var flagOutput = &cli.StringFlag{
	Name:    "output",
	Aliases: []string{"o"},
	Usage:   "output file",
}

func filterOptions(cCtx *cli.Context) commands.FilterOptions {
	return commands.FilterOptions{
		TraceID:   cCtx.String("trace-id"),
		DeviceID:  cCtx.String("device-id"),
		Component: cCtx.String("component"),
		Category:  cCtx.String("category"),
		Source:    cCtx.String("source"),
		TimeStart: cCtx.String("time-start"),
		TimeEnd:   cCtx.String("time-end"),
	}
}

func tracePath(cCtx *cli.Context) (string, error) {
	if cCtx.NArg() < 1 {
		return "", fmt.Errorf("trace file path required")
	}
	return cCtx.Args().First(), nil
}

func main() {
	app := &cli.App{
		Name:      "accessory-trace",
		Usage:     "View and analyze bring-up trace files",
		ArgsUsage: "<file.btrace>",
		Commands: []*cli.Command{
			{
				Name:      "view",
				Usage:     "View trace file in human-readable format",
				ArgsUsage: "<file.btrace>",
				Flags:     filterFlags,
				Action: func(cCtx *cli.Context) error {
					path, err := tracePath(cCtx)
					if err != nil {
						return err
					}
					return commands.RunView(path, filterOptions(cCtx), os.Stdout)
				},
			},
			{
				Name:      "export",
				Usage:     "Export trace file to JSONL or CSV",
				ArgsUsage: "<file.btrace>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Value: "jsonl", Usage: "output format (jsonl, csv)"},
					flagOutput,
				},
				Action: func(cCtx *cli.Context) error {
					path, err := tracePath(cCtx)
					if err != nil {
						return err
					}
					return commands.RunExport(path, cCtx.String("format"), cCtx.String(flagOutput.Name))
				},
			},
			{
				Name:      "filter",
				Usage:     "Filter trace file and write matching events to a new file",
				ArgsUsage: "<file.btrace>",
				Flags:     append([]cli.Flag{flagOutput}, filterFlags...),
				Action: func(cCtx *cli.Context) error {
					path, err := tracePath(cCtx)
					if err != nil {
						return err
					}
					n, err := commands.RunFilter(path, cCtx.String(flagOutput.Name), filterOptions(cCtx))
					if err != nil {
						return err
					}
					fmt.Fprintf(os.Stderr, "Wrote %d events to %s\n", n, cCtx.String(flagOutput.Name))
					return nil
				},
			},
			{
				Name:      "stats",
				Usage:     "Show statistics about the trace file",
				ArgsUsage: "<file.btrace>",
				Action: func(cCtx *cli.Context) error {
					path, err := tracePath(cCtx)
					if err != nil {
						return err
					}
					return commands.RunStatsCommand(path, os.Stdout)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
