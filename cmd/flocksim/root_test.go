package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/telemetry"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDefaultsCmd(t *testing.T) {
	out, err := execute(t, "defaults")
	require.NoError(t, err)
	assert.Contains(t, out, "numBoids: 150")
	assert.Contains(t, out, "neighborRadius: 10")

	// the printed defaults are themselves a valid config
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o600))
	out, err = execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
}

func TestValidateCmd_Rejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"numBoids": -4}`), 0o600))

	_, err := execute(t, "validate", path)
	assert.Error(t, err)

	_, err = execute(t, "validate")
	assert.Error(t, err, "config path is required")
}

func TestRunCmd_WritesTelemetry(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "run.csv")
	out, err := execute(t, "run",
		"--ticks", "5",
		"--boids", "12",
		"--seed", "3",
		"--csv", csvPath,
		"--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "ticks=5 boids=12")

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	var rows []telemetry.Record
	require.NoError(t, gocsv.Unmarshal(f, &rows))
	require.Len(t, rows, 5)
	for i, r := range rows {
		assert.Equal(t, uint64(i+1), r.Tick)
		assert.Equal(t, 12, r.Boids)
		assert.LessOrEqual(t, r.MaxSpeed, 8.0+1e-9)
	}
}

func TestRunCmd_CSVToStdout(t *testing.T) {
	out, err := execute(t, "run", "--ticks", "2", "--boids", "4", "--csv", "-", "--log-level", "error")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "tick,"))
}

func TestRunCmd_BadFlags(t *testing.T) {
	_, err := execute(t, "run", "--ticks", "1", "--log-level", "shout")
	assert.Error(t, err)

	_, err = execute(t, "run", "--ticks", "1", "--dt", "-1")
	assert.Error(t, err)
}
