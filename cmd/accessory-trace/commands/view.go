// Package commands implements the accessory-trace CLI commands.
package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/dbahrdt/accessory-bringup/pkg/log"
)

// FormatEvent writes a human-readable representation of the event to w.
func FormatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")

	var typeLabel string
	switch {
	case event.Dispatch != nil:
		typeLabel = event.Dispatch.Source
	case event.StateChange != nil:
		typeLabel = event.StateChange.Entity.String()
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [trace:%s] %-12s %-8s %s\n",
		ts, shortenID(event.TraceID), event.Component.String(), event.Category.String(), typeLabel)

	switch {
	case event.Dispatch != nil:
		formatDispatchDetails(w, event.Dispatch)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

// shortenID returns the first 8 characters of a trace ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	if id == "" {
		return "-"
	}
	return id
}

func formatDispatchDetails(w io.Writer, d *log.DispatchEvent) {
	if d.Name != "" {
		fmt.Fprintf(w, "  Event: %s (%d)\n", d.Name, d.ID)
	} else {
		fmt.Fprintf(w, "  Event: %d\n", d.ID)
	}
	fmt.Fprintf(w, "  Seq: %d  Handlers: %d\n", d.Seq, d.Handlers)
	if d.Latency > 0 {
		fmt.Fprintf(w, "  Latency: %s\n", formatDuration(d.Latency))
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatErrorDetails(w io.Writer, e *log.ErrorEventData) {
	if e.Operation != "" {
		fmt.Fprintf(w, "  Operation: %s\n", e.Operation)
	}
	fmt.Fprintf(w, "  Message: %s\n", e.Message)
	if e.Code != nil {
		fmt.Fprintf(w, "  Code: %d\n", *e.Code)
	}
	if e.Fatal {
		fmt.Fprintln(w, "  Fatal: yes")
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// RunView writes every event of path matching opts to output.
func RunView(path string, opts FilterOptions, output io.Writer) error {
	filter, err := opts.Build()
	if err != nil {
		return err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		FormatEvent(output, event)
	}
}
