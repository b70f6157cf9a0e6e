package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dbahrdt/accessory-bringup/pkg/log"
)

// Stats holds aggregate statistics about a trace file.
type Stats struct {
	TotalEvents        int
	EventsByComponent  map[log.Component]int
	EventsByCategory   map[log.Category]int
	DispatchesBySource map[string]int
	Runs               map[string]*RunStats
	Errors             int
	FatalErrors        int
	MaxLatency         time.Duration
	TimeRange          struct {
		Start time.Time
		End   time.Time
	}
}

// RunStats holds statistics for one bring-up run.
type RunStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	DeviceID  string
	LastPhase string
}

// Collect reads all events from path and aggregates them.
func Collect(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByComponent:  make(map[log.Component]int),
		EventsByCategory:   make(map[log.Category]int),
		DispatchesBySource: make(map[string]int),
		Runs:               make(map[string]*RunStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}
	return stats, nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByComponent[event.Component]++
	s.EventsByCategory[event.Category]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	run, ok := s.Runs[event.TraceID]
	if !ok {
		run = &RunStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
		s.Runs[event.TraceID] = run
	}
	run.Events++
	if event.Timestamp.After(run.LastSeen) {
		run.LastSeen = event.Timestamp
	}
	if event.DeviceID != "" && run.DeviceID == "" {
		run.DeviceID = event.DeviceID
	}

	switch {
	case event.Dispatch != nil:
		s.DispatchesBySource[event.Dispatch.Source]++
		if event.Dispatch.Latency > s.MaxLatency {
			s.MaxLatency = event.Dispatch.Latency
		}
	case event.StateChange != nil:
		if event.StateChange.Entity == log.StateEntityBringup {
			run.LastPhase = event.StateChange.NewState
		}
	case event.Error != nil:
		s.Errors++
		if event.Error.Fatal {
			s.FatalErrors++
		}
	}
}

// RunStatsCommand analyzes the trace file and prints statistics.
func RunStatsCommand(path string, w io.Writer) error {
	stats, err := Collect(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Bring-up Trace Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Component:")
	for c := log.ComponentRouter; c <= log.ComponentOrchestrator; c++ {
		if count := stats.EventsByComponent[c]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", c.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for c := log.CategoryDispatch; c <= log.CategoryError; c++ {
		if count := stats.EventsByCategory[c]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", c.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.DispatchesBySource) > 0 {
		fmt.Fprintln(w, "Dispatches by Source:")
		sources := make([]string, 0, len(stats.DispatchesBySource))
		for s := range stats.DispatchesBySource {
			sources = append(sources, s)
		}
		sort.Strings(sources)
		for _, s := range sources {
			fmt.Fprintf(w, "  %-20s %d\n", s+":", stats.DispatchesBySource[s])
		}
		fmt.Fprintf(w, "  Max latency:         %s\n", formatDuration(stats.MaxLatency))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Errors: %d (fatal: %d)\n", stats.Errors, stats.FatalErrors)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Runs: %d\n", len(stats.Runs))
	ids := make([]string, 0, len(stats.Runs))
	for id := range stats.Runs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return stats.Runs[ids[i]].FirstSeen.Before(stats.Runs[ids[j]].FirstSeen)
	})
	for _, id := range ids {
		run := stats.Runs[id]
		fmt.Fprintf(w, "  [%s] events=%d duration=%s",
			shortenID(id), run.Events, run.LastSeen.Sub(run.FirstSeen).Round(time.Millisecond))
		if run.DeviceID != "" {
			fmt.Fprintf(w, " device=%s", run.DeviceID)
		}
		if run.LastPhase != "" {
			fmt.Fprintf(w, " phase=%s", run.LastPhase)
		}
		fmt.Fprintln(w)
	}
}
