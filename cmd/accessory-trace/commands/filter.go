package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dbahrdt/accessory-bringup/pkg/log"
)

// FilterOptions holds the textual filter flags shared by all commands.
type FilterOptions struct {
	TraceID   string
	DeviceID  string
	Component string
	Category  string
	Source    string
	TimeStart string
	TimeEnd   string
}

// Build converts the options into a log.Filter.
func (o FilterOptions) Build() (log.Filter, error) {
	filter := log.Filter{
		TraceID:  o.TraceID,
		DeviceID: o.DeviceID,
		Source:   o.Source,
	}

	if o.Component != "" {
		c, ok := log.ParseComponent(strings.ToUpper(o.Component))
		if !ok {
			return filter, fmt.Errorf("invalid component: %s", o.Component)
		}
		filter.Component = &c
	}

	if o.Category != "" {
		c, ok := log.ParseCategory(strings.ToUpper(o.Category))
		if !ok {
			return filter, fmt.Errorf("invalid category: %s (must be dispatch, state, or error)", o.Category)
		}
		filter.Category = &c
	}

	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return filter, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return filter, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	return filter, nil
}

// RunFilter copies the events of path matching opts into output.
func RunFilter(path, output string, opts FilterOptions) (uint64, error) {
	if output == "" {
		return 0, fmt.Errorf("output file required")
	}

	filter, err := opts.Build()
	if err != nil {
		return 0, err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	writer, err := log.NewFileLogger(output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			writer.Close()
			return writer.Count(), fmt.Errorf("failed to read event: %w", err)
		}
		writer.Log(event)
	}

	count := writer.Count()
	if err := writer.Close(); err != nil {
		return count, fmt.Errorf("failed to close output file: %w", err)
	}
	return count, nil
}
