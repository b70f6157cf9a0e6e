package commands

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExportJSONL(t *testing.T) {
	path := writeTrace(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "run.jsonl")

	require.NoError(t, RunExport(path, "jsonl", out))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		lines = append(lines, m)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, lines, 6)

	assert.Equal(t, "11111111-aaaa-bbbb-cccc-000000000001", lines[0]["TraceID"])
	dispatch, ok := lines[1]["Dispatch"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "WIFI_EVENT", dispatch["Source"])
}

func TestRunExportCSV(t *testing.T) {
	path := writeTrace(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "run.csv")

	require.NoError(t, RunExport(path, "csv", out))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 7)

	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{"ROUTER", "DISPATCH", "WIFI_EVENT", "STA_START"}, records[2][3:7])
	assert.Equal(t, "0", records[3][6])
	assert.Equal(t, "certificate rejected", records[4][11])
	assert.Equal(t, "true", records[4][12])
	assert.Equal(t, "FAILED", records[5][8])
}

func TestRunExportUnknownFormat(t *testing.T) {
	path := writeTrace(t, sampleEvents())

	err := RunExport(path, "xml", "")
	assert.ErrorContains(t, err, "unknown format")
}
