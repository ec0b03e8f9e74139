package runtime

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/warriorguo/depflow/graph"
	"github.com/warriorguo/depflow/store"
	"github.com/warriorguo/depflow/types"
)

// RunReport is the outcome of one execution of a graph.
type RunReport struct {
	ID      string
	Results types.Results
	Elapsed time.Duration
	Stats   RunStats
}

/**
 * Engine ties the builder, the sorter and both executors together and
 * traces every run into its store.
 */
type Engine struct {
	store store.Store
	opts  *types.RunOptions
}

func NewEngine(s store.Store, opts *types.RunOptions) *Engine {
	if opts == nil {
		opts = types.NewRunOptions()
	}
	return &Engine{store: s, opts: opts}
}

func (e *Engine) Options() *types.RunOptions {
	return e.opts
}

func (e *Engine) Build(instructions []types.Instruction, deps types.DependencyTable) (*graph.Graph, error) {
	g, err := graph.Build(instructions, deps)
	if err != nil {
		return nil, errors.Annotatef(err, "build graph")
	}
	log.Infof("built graph of %d nodes and %d edges", g.Len(), len(g.Edges()))
	return g, nil
}

// Sort orders g with the tie-break policy of the engine options.
func (e *Engine) Sort(g types.DAG) ([]*types.Node, error) {
	return e.SortWith(g, e.opts.BreadthFirst)
}

func (e *Engine) SortWith(g types.DAG, breadthFirst bool) ([]*types.Node, error) {
	order, err := graph.TopologicalSort(g, breadthFirst)
	if err != nil {
		return nil, errors.Annotatef(err, "sort graph")
	}
	return order, nil
}

// RunSerially is RunSerially traced into the engine store. The order is validated against g.
func (e *Engine) RunSerially(ctx context.Context, g types.DAG, order []*types.Node, fn types.WorkFunc) (*RunReport, error) {
	if err := graph.ValidateOrder(g, order); err != nil {
		return nil, errors.Trace(err)
	}

	report := e.newReport()
	tr := newTracer(ctx, e.store, report.ID, g)
	stats := &RunStats{}

	start := time.Now()
	results, err := runSerially(ctx, order, fn, stats, hooks{tr})
	report.Elapsed = time.Since(start)
	report.Results = results
	report.Stats = stats.snapshot()

	log.Infof("serial run %s finished in %v", report.ID, report.Elapsed)
	return report, errors.Trace(err)
}

// RunConcurrently runs order on a scheduler configured by the engine options.
func (e *Engine) RunConcurrently(ctx context.Context, g types.DAG, order []*types.Node, fn types.WorkFunc) (*RunReport, error) {
	report := e.newReport()
	scheduler, err := NewScheduler(e.opts, newTracer(ctx, e.store, report.ID, g))
	if err != nil {
		return nil, errors.Trace(err)
	}

	start := time.Now()
	results, err := scheduler.Run(ctx, g, order, fn)
	report.Elapsed = time.Since(start)
	report.Results = results
	report.Stats = scheduler.Stats()
	if err != nil && types.IsConfigError(err) {
		return nil, errors.Trace(err)
	}

	log.Infof("concurrent run %s finished in %v with parallelism %d", report.ID, report.Elapsed, e.opts.Parallelism)
	return report, errors.Trace(err)
}

func (e *Engine) Records(ctx context.Context, runID string) (map[int]*types.NodeTraceRecord, error) {
	return LoadRecords(ctx, e.store, runID)
}

// Render returns the DOT document of g, coloured by the records of runID when it is not empty.
func (e *Engine) Render(ctx context.Context, name string, g types.DAG, runID string) (string, error) {
	var records map[int]*types.NodeTraceRecord
	if runID != "" {
		var err error
		if records, err = e.Records(ctx, runID); err != nil {
			return "", errors.Trace(err)
		}
	}
	return graph.RenderDOT(name, g, records), nil
}

func (e *Engine) Close() error {
	return errors.Trace(e.store.Close())
}

func (e *Engine) newReport() *RunReport {
	return &RunReport{ID: uuid.New().String()}
}
