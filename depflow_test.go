package depflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warriorguo/depflow/provision"
	"github.com/warriorguo/depflow/types"
)

func TestNewEngineProvisioning(t *testing.T) {
	e, err := NewEngine(types.SetAccounts(2), types.SetParallelism(3))
	require.Nil(t, err)
	defer e.Close()

	g, err := e.Build(provision.Instructions(e.Options().Accounts), provision.Dependencies())
	require.Nil(t, err)
	assert.Equal(t, 12, g.Len())

	ctx := context.Background()
	serialOrder, err := e.SortWith(g, false)
	require.Nil(t, err)
	order, err := e.Sort(g)
	require.Nil(t, err)

	work := provision.Sync(time.Millisecond)
	serial, err := e.RunSerially(ctx, g, serialOrder, work)
	require.Nil(t, err)
	concurrent, err := e.RunConcurrently(ctx, g, order, work)
	require.Nil(t, err)

	assert.Equal(t, serial.Results, concurrent.Results)
	assert.LessOrEqual(t, concurrent.Stats.PeakRunning, int32(3))

	dot, err := e.Render(ctx, "provision", g, concurrent.ID)
	require.Nil(t, err)
	assert.Contains(t, dot, "CloudTrail Trail [PDU2]")
}

func TestNewEngineInvalidOptions(t *testing.T) {
	_, err := NewEngine(types.SetParallelism(0))
	assert.True(t, types.IsConfigError(err))

	_, err = NewEngine(types.WithPostgresConfig(&types.PostgresConfig{}))
	assert.NotNil(t, err)
}

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "depflow.yaml")
	require.Nil(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	opts, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Nil(t, err)
	assert.Equal(t, types.NewRunOptions().Parallelism, opts.Parallelism)

	opts, err = LoadConfig(writeConfig(t, `
parallelism: 8
breadthFirst: false
failFast: true
accounts: 5
syncDelay: 20ms
postgres:
  host: db
  port: 5433
  user: depflow
  database: traces
  sslmode: disable
`))
	require.Nil(t, err)
	assert.Equal(t, 8, opts.Parallelism)
	assert.False(t, opts.BreadthFirst)
	assert.True(t, opts.FailFast)
	assert.Equal(t, 5, opts.Accounts)
	assert.Equal(t, 20*time.Millisecond, opts.SyncDelay)
	require.NotNil(t, opts.PostgresConfig)
	assert.Equal(t, "db", opts.PostgresConfig.Host)
	assert.Equal(t, 5433, opts.PostgresConfig.Port)

	opts, err = LoadConfig(writeConfig(t, "accounts: 3\n"))
	require.Nil(t, err)
	assert.Equal(t, 3, opts.Accounts)
	assert.Equal(t, 4, opts.Parallelism)
	assert.True(t, opts.BreadthFirst)
	assert.Nil(t, opts.PostgresConfig)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "parallelism: [1, 2"))
	assert.True(t, types.IsConfigError(err))

	_, err = LoadConfig(writeConfig(t, "parallelism: 0\n"))
	assert.True(t, types.IsConfigError(err))
}
