package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/warriorguo/depflow"
	"github.com/warriorguo/depflow/provision"
	"github.com/warriorguo/depflow/store/postgres"
	"github.com/warriorguo/depflow/types"
)

type rootFlags struct {
	config      string
	accounts    int
	parallelism int
	failFast    bool
	dot         string
	delay       string
	logLevel    string
	postgresDSN string
}

// newRootCmd builds the provisioning graph, prints its orders, then runs it
// serially and concurrently and compares the elapsed times.
func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "depflow",
		Short: "Build, sort and execute the account provisioning graph",
		Long: `depflow builds the dependency graph of a syslog account and its PDU accounts,
prints its topological orders, executes it in serial and with bounded concurrency
and reports how much the concurrent run saved.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.config, "config", "", "YAML file with run options")
	flags.IntVar(&f.accounts, "accounts", 1, "number of PDU accounts to provision")
	flags.IntVar(&f.parallelism, "parallelism", 4, "maximum number of steps running at once")
	flags.BoolVar(&f.failFast, "fail-fast", false, "cancel pending steps on the first failure")
	flags.StringVar(&f.dot, "dot", "", "write the graph of the concurrent run in DOT format to this file")
	flags.StringVar(&f.delay, "delay", "500ms", "simulated duration of every step, bare numbers are seconds")
	flags.StringVar(&f.logLevel, "log-level", "warning", "logrus level")
	flags.StringVar(&f.postgresDSN, "postgres-dsn", "", "trace runs into PostgreSQL, e.g. \"host=localhost user=postgres dbname=depflow\"")
	return cmd
}

// parseDelay reads bare numbers as seconds and everything else as a Go duration.
func parseDelay(s string) (time.Duration, error) {
	if seconds, err := cast.ToFloat64E(s); err == nil {
		return time.Duration(seconds * float64(time.Second)), nil
	}
	d, err := cast.ToDurationE(s)
	if err != nil {
		return 0, types.NewConfigErrorf("invalid delay %q", s)
	}
	return d, nil
}

// options layers the flags the user set on top of the config file.
func options(cmd *cobra.Command, f *rootFlags) (*types.RunOptions, error) {
	opts, err := depflow.LoadConfig(f.config)
	if err != nil {
		return nil, errors.Trace(err)
	}

	flags := cmd.Flags()
	if flags.Changed("accounts") {
		opts.Accounts = f.accounts
	}
	if flags.Changed("parallelism") {
		opts.Parallelism = f.parallelism
	}
	if flags.Changed("fail-fast") {
		opts.FailFast = f.failFast
	}
	if flags.Changed("delay") {
		if opts.SyncDelay, err = parseDelay(f.delay); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if f.postgresDSN != "" {
		config, err := postgres.ParseDSN(f.postgresDSN)
		if err != nil {
			return nil, errors.Annotatef(err, "postgres-dsn")
		}
		opts.PostgresConfig = config.ToOptions()
	}
	return opts, errors.Trace(opts.Validate())
}

func joinOrder(order []*types.Node) string {
	labels := make([]string, 0, len(order))
	for _, n := range order {
		labels = append(labels, n.Label)
	}
	return strings.Join(labels, ", ")
}

func run(cmd *cobra.Command, f *rootFlags) error {
	level, err := log.ParseLevel(f.logLevel)
	if err != nil {
		return types.NewConfigError(err)
	}
	log.SetLevel(level)

	opts, err := options(cmd, f)
	if err != nil {
		return errors.Trace(err)
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	engine, err := depflow.NewEngineWithOptions(opts)
	if err != nil {
		return errors.Trace(err)
	}
	defer engine.Close()

	g, err := engine.Build(provision.Instructions(opts.Accounts), provision.Dependencies())
	if err != nil {
		return errors.Trace(err)
	}
	fmt.Fprintf(out, "Built graph of %d nodes and %d edges\n", g.Len(), len(g.Edges()))

	depthFirst, err := engine.SortWith(g, false)
	if err != nil {
		return errors.Trace(err)
	}
	breadthFirst, err := engine.SortWith(g, true)
	if err != nil {
		return errors.Trace(err)
	}
	fmt.Fprintf(out, "Depth-first topological sort: %s\n", joinOrder(depthFirst))
	fmt.Fprintf(out, "Breadth-first topological sort: %s\n", joinOrder(breadthFirst))

	work := provision.Sync(opts.SyncDelay)

	fmt.Fprintln(out, "Executing depth-first order in serial..")
	serial, err := engine.RunSerially(ctx, g, depthFirst, work)
	if err != nil {
		return errors.Annotatef(err, "serial run")
	}

	concurrentOrder := breadthFirst
	if !opts.BreadthFirst {
		concurrentOrder = depthFirst
	}
	fmt.Fprintf(out, "Executing order concurrently with parallelism %d..\n", opts.Parallelism)
	concurrent, runErr := engine.RunConcurrently(ctx, g, concurrentOrder, work)
	if concurrent == nil {
		return errors.Annotatef(runErr, "concurrent run")
	}

	records, err := engine.Records(ctx, concurrent.ID)
	if err != nil {
		return errors.Trace(err)
	}
	printRecords(out, g.Nodes(), records)
	printTimings(out, serial, concurrent)

	if f.dot != "" {
		dot, err := engine.Render(ctx, "provision", g, concurrent.ID)
		if err != nil {
			return errors.Trace(err)
		}
		if err := os.WriteFile(f.dot, []byte(dot), 0o644); err != nil {
			return errors.Annotatef(err, "write %s", f.dot)
		}
		fmt.Fprintf(out, "Wrote graph to %s\n", f.dot)
	}
	return errors.Annotatef(runErr, "concurrent run")
}
