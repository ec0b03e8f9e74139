package types

import (
	"time"

	"github.com/mcuadros/go-defaults"
)

func NewRunOptions() *RunOptions {
	opts := &RunOptions{}
	defaults.SetDefaults(opts)
	return opts
}

type RunOptions struct {
	/**
	 * default: 4
	 * the concurrent scheduler runs at most this many work functions at once.
	 */
	Parallelism int `default:"4" yaml:"parallelism"`
	/**
	 * default: true
	 * BreadthFirst selects the FIFO tie-break of the sorter, false selects LIFO.
	 */
	BreadthFirst bool `default:"true" yaml:"breadthFirst"`
	/**
	 * default: false
	 * When FailFast is true, the first work failure cancels every node which has
	 * not been dispatched yet. Otherwise only dependents of the failed node are
	 * skipped and independent branches run to completion.
	 */
	FailFast bool `default:"false" yaml:"failFast"`
	/**
	 * default: 1
	 * number of PDU accounts the provisioning example builds nodes for.
	 */
	Accounts int `default:"1" yaml:"accounts"`
	/**
	 * default: 500ms
	 * simulated latency of the provisioning example work function.
	 */
	SyncDelay time.Duration `default:"500ms" yaml:"syncDelay"`

	// PostgreSQL trace store configuration, the in-memory store is used when nil.
	PostgresConfig *PostgresConfig `yaml:"postgres,omitempty"`
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"` // disable, require, verify-ca, verify-full
}

type RunOption func(*RunOptions)

func SetParallelism(parallelism int) RunOption {
	return func(opts *RunOptions) {
		opts.Parallelism = parallelism
	}
}

func DepthFirst() RunOption {
	return func(opts *RunOptions) {
		opts.BreadthFirst = false
	}
}

func EnableFailFast() RunOption {
	return func(opts *RunOptions) {
		opts.FailFast = true
	}
}

func SetAccounts(accounts int) RunOption {
	return func(opts *RunOptions) {
		opts.Accounts = accounts
	}
}

func SetSyncDelay(delay time.Duration) RunOption {
	return func(opts *RunOptions) {
		opts.SyncDelay = delay
	}
}

// WithPostgresConfig records node traces in PostgreSQL
func WithPostgresConfig(config *PostgresConfig) RunOption {
	return func(opts *RunOptions) {
		opts.PostgresConfig = config
	}
}

func (opts *RunOptions) Apply(options ...RunOption) *RunOptions {
	for _, opt := range options {
		opt(opts)
	}
	return opts
}

func (opts *RunOptions) Validate() error {
	if opts.Parallelism <= 0 {
		return NewConfigErrorf("parallelism must be positive, got %d", opts.Parallelism)
	}
	if opts.Accounts < 0 {
		return NewConfigErrorf("accounts must not be negative, got %d", opts.Accounts)
	}
	return nil
}
