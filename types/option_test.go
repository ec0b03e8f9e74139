package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunOptionsDefaults(t *testing.T) {
	opts := NewRunOptions()

	assert.Equal(t, 4, opts.Parallelism)
	assert.True(t, opts.BreadthFirst)
	assert.False(t, opts.FailFast)
	assert.Equal(t, 1, opts.Accounts)
	assert.Equal(t, 500*time.Millisecond, opts.SyncDelay)
	assert.Nil(t, opts.PostgresConfig)
	assert.Nil(t, opts.Validate())
}

func TestWithPostgresConfig(t *testing.T) {
	config := &PostgresConfig{
		Host:     "dbhost",
		Port:     5433,
		User:     "user",
		Password: "pass",
		Database: "db",
		SSLMode:  "require",
	}

	opts := NewRunOptions()
	opt := WithPostgresConfig(config)
	opt(opts)

	assert.NotNil(t, opts.PostgresConfig)
	assert.Equal(t, "dbhost", opts.PostgresConfig.Host)
	assert.Equal(t, 5433, opts.PostgresConfig.Port)
	assert.Equal(t, "user", opts.PostgresConfig.User)
	assert.Equal(t, "pass", opts.PostgresConfig.Password)
	assert.Equal(t, "db", opts.PostgresConfig.Database)
	assert.Equal(t, "require", opts.PostgresConfig.SSLMode)
}

func TestMultipleOptions(t *testing.T) {
	opts := NewRunOptions().Apply(
		SetParallelism(8),
		DepthFirst(),
		EnableFailFast(),
		SetAccounts(3),
		SetSyncDelay(time.Millisecond),
	)

	assert.Equal(t, 8, opts.Parallelism)
	assert.False(t, opts.BreadthFirst)
	assert.True(t, opts.FailFast)
	assert.Equal(t, 3, opts.Accounts)
	assert.Equal(t, time.Millisecond, opts.SyncDelay)
}

func TestValidateParallelism(t *testing.T) {
	for _, parallelism := range []int{0, -1} {
		err := NewRunOptions().Apply(SetParallelism(parallelism)).Validate()
		assert.NotNil(t, err)
		assert.True(t, IsConfigError(err))
	}
	assert.True(t, IsConfigError(NewRunOptions().Apply(SetAccounts(-1)).Validate()))
}
