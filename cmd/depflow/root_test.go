package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warriorguo/depflow/types"
)

func execute(t *testing.T, args ...string) (string, error) {
	cmd := newRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	dot := filepath.Join(t.TempDir(), "graph.dot")
	out, err := execute(t, "--accounts", "2", "--parallelism", "3", "--delay", "5ms", "--dot", dot)
	require.Nil(t, err)

	assert.Contains(t, out, "Built graph of 12 nodes")
	assert.Contains(t, out, "Depth-first topological sort: Create [PDU2]")
	assert.Contains(t, out, "Breadth-first topological sort: Create [Syslog], Create [PDU1], Create [PDU2]")
	assert.Contains(t, out, "CloudTrail Trail [PDU2]")
	assert.Contains(t, out, "serial")
	assert.Contains(t, out, "concurrent")
	assert.Contains(t, out, "%")

	b, err := os.ReadFile(dot)
	require.Nil(t, err)
	assert.Contains(t, string(b), "digraph")
	assert.Contains(t, string(b), "color=\"green\"")
}

func TestRootCommandConfig(t *testing.T) {
	config := filepath.Join(t.TempDir(), "depflow.yaml")
	require.Nil(t, os.WriteFile(config, []byte("accounts: 0\nsyncDelay: 1ms\n"), 0o600))

	out, err := execute(t, "--config", config)
	require.Nil(t, err)
	assert.Contains(t, out, "Built graph of 4 nodes and 3 edges")
}

func TestRootCommandErrors(t *testing.T) {
	_, err := execute(t, "--parallelism", "0", "--delay", "1ms")
	assert.True(t, types.IsConfigError(err))

	_, err = execute(t, "--delay", "soon")
	assert.True(t, types.IsConfigError(err))

	_, err = execute(t, "--log-level", "chatty")
	assert.True(t, types.IsConfigError(err))

	_, err = execute(t, "--postgres-dsn", "host= port=0", "--delay", "1ms")
	assert.NotNil(t, err)

	_, err = execute(t, "extra")
	assert.NotNil(t, err)
}

func TestParseDelay(t *testing.T) {
	for s, expected := range map[string]time.Duration{
		"0.5":   500 * time.Millisecond,
		"2":     2 * time.Second,
		"250ms": 250 * time.Millisecond,
		"1m":    time.Minute,
	} {
		d, err := parseDelay(s)
		require.Nil(t, err, s)
		assert.Equal(t, expected, d, s)
	}

	_, err := parseDelay("later")
	assert.NotNil(t, err)
}

func TestReduction(t *testing.T) {
	assert.Equal(t, 75.0, reduction(4*time.Second, time.Second))
	assert.Equal(t, 0.0, reduction(0, time.Second))
}
