package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dbahrdt/accessory-bringup/pkg/log"
)

// RunExport exports the trace file to the specified format.
func RunExport(path, format, output string) error {
	if format != "jsonl" && format != "csv" {
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if format == "csv" {
		return exportCSV(reader, w)
	}
	return exportJSONL(reader, w)
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
}

var csvHeader = []string{"timestamp", "trace_id", "device_id", "component", "category", "source", "event", "old_state", "new_state", "reason", "operation", "message", "fatal"}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := cw.Write(csvRecord(event)); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvRecord(event log.Event) []string {
	rec := make([]string, len(csvHeader))
	rec[0] = event.Timestamp.UTC().Format(time.RFC3339Nano)
	rec[1] = event.TraceID
	rec[2] = event.DeviceID
	rec[3] = event.Component.String()
	rec[4] = event.Category.String()

	switch {
	case event.Dispatch != nil:
		rec[5] = event.Dispatch.Source
		rec[6] = event.Dispatch.Name
		if rec[6] == "" {
			rec[6] = strconv.Itoa(int(event.Dispatch.ID))
		}
	case event.StateChange != nil:
		rec[5] = event.StateChange.Entity.String()
		rec[7] = event.StateChange.OldState
		rec[8] = event.StateChange.NewState
		rec[9] = event.StateChange.Reason
	case event.Error != nil:
		rec[10] = event.Error.Operation
		rec[11] = event.Error.Message
		rec[12] = strconv.FormatBool(event.Error.Fatal)
	}
	return rec
}
