package runtime

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/gammazero/workerpool"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/warriorguo/depflow/graph"
	"github.com/warriorguo/depflow/types"
)

/**
 * Scheduler runs a topologically sorted order on a bounded worker pool.
 * A single dispatch loop walks the order, before dispatching a node it waits
 * until none of the node's predecessors is in progress anymore. Since the order
 * is topological every predecessor was dispatched earlier, so once none is in
 * progress all of them have finished.
 */
type Scheduler struct {
	parallelism int
	failFast    bool
	hooks       hooks

	statsMu sync.Mutex
	stats   *RunStats
}

func NewScheduler(opts *types.RunOptions, hs ...Hook) (*Scheduler, error) {
	if opts == nil {
		opts = types.NewRunOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Scheduler{
		parallelism: opts.Parallelism,
		failFast:    opts.FailFast,
		hooks:       hs,
	}, nil
}

// Stats returns the counters of the latest run.
func (s *Scheduler) Stats() RunStats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	if s.stats == nil {
		return RunStats{}
	}
	return s.stats.snapshot()
}

/**
 * Run executes fn on every node of order, at most parallelism at once.
 * order must be a valid topological order of g, it is checked before anything runs.
 * The returned Results hold every node which completed. If any node failed, was
 * skipped or cancelled the error is a *types.RunError.
 * Without fail-fast only the transitive dependents of a failed node are skipped,
 * with fail-fast the first failure cancels the context given to running work
 * functions and every node not dispatched yet.
 */
func (s *Scheduler) Run(ctx context.Context, g types.DAG, order []*types.Node, fn types.WorkFunc) (types.Results, error) {
	if fn == nil {
		return nil, types.NewConfigErrorf("work function is nil")
	}
	if err := graph.ValidateOrder(g, order); err != nil {
		return nil, errors.Trace(err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	r := newSchedulerRun(s, g, len(order), cancel)
	wp := workerpool.New(s.parallelism)
	for _, n := range order {
		if !r.waitDispatchable(runCtx, n) {
			continue
		}
		wp.Submit(func() {
			r.execute(runCtx, n, fn)
		})
	}
	wp.StopWait()

	s.statsMu.Lock()
	s.stats = r.stats
	s.statsMu.Unlock()

	if !r.runErr.Empty() {
		return r.results, errors.Trace(r.runErr)
	}
	return r.results, nil
}

type schedulerRun struct {
	mu   sync.Mutex
	cond *sync.Cond

	s      *Scheduler
	g      types.DAG
	cancel context.CancelFunc
	stats  *RunStats

	inProgress map[*types.Node]struct{}
	status     map[*types.Node]types.StatusType
	results    types.Results
	runErr     *types.RunError
}

func newSchedulerRun(s *Scheduler, g types.DAG, size int, cancel context.CancelFunc) *schedulerRun {
	r := &schedulerRun{
		s:          s,
		stats:      &RunStats{},
		g:          g,
		cancel:     cancel,
		inProgress: make(map[*types.Node]struct{}, s.parallelism),
		status:     make(map[*types.Node]types.StatusType, size),
		results:    make(types.Results, size),
		runErr:     types.NewRunError(),
	}
	r.cond = sync.NewCond(&r.mu)
	return r
}

/**
 * waitDispatchable blocks until no predecessor of n is in progress.
 * It marks n in progress and returns true when n should be submitted, otherwise
 * n is recorded as skipped or cancelled.
 */
func (r *schedulerRun) waitDispatchable(ctx context.Context, n *types.Node) bool {
	predecessors := r.g.Predecessors(n)

	r.mu.Lock()
	r.status[n] = types.Waiting
	for r.anyInProgress(predecessors) {
		log.Debugf("delaying execution of %s until its predecessors complete", n)
		r.cond.Wait()
	}

	if ctx.Err() != nil {
		r.status[n] = types.Cancelled
		r.runErr.Cancelled = append(r.runErr.Cancelled, n)
		r.mu.Unlock()

		atomic.AddInt64(&r.stats.Cancelled, 1)
		r.s.hooks.finished(n, types.Cancelled, types.ErrCancelled)
		return false
	}
	if blocker := r.unfinishedPredecessor(predecessors); blocker != nil {
		r.status[n] = types.Skipped
		r.runErr.Skipped = append(r.runErr.Skipped, n)
		r.mu.Unlock()

		log.Infof("skipping %s, %s did not complete", n, blocker)
		atomic.AddInt64(&r.stats.Skipped, 1)
		r.s.hooks.finished(n, types.Skipped, errors.Annotatef(types.ErrDependencyFailed, "%s", blocker))
		return false
	}

	log.Debugf("all dependencies of %s completed", n)
	r.inProgress[n] = struct{}{}
	r.status[n] = types.Running
	r.mu.Unlock()
	return true
}

/**
 * execute runs fn on n once a worker picks it up. A node still queued in the
 * pool when the run gets cancelled is recorded as cancelled and never runs.
 */
func (r *schedulerRun) execute(ctx context.Context, n *types.Node, fn types.WorkFunc) {
	if ctx.Err() != nil {
		r.cancelQueued(n)
		return
	}

	atomic.AddInt64(&r.stats.Dispatched, 1)
	value, err := runWork(ctx, n, fn, r.stats, r.s.hooks)

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.inProgress, n)
	if err != nil {
		log.Errorf("%s failed: %v", n, err)
		r.status[n] = types.Failed
		r.runErr.Failed[n] = types.NewWorkError(n, err)
		if r.s.failFast {
			r.cancel()
		}
	} else {
		r.status[n] = types.Completed
		r.results[n] = value
	}
	r.cond.Broadcast()
}

func (r *schedulerRun) cancelQueued(n *types.Node) {
	atomic.AddInt64(&r.stats.Cancelled, 1)
	r.s.hooks.finished(n, types.Cancelled, types.ErrCancelled)

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.inProgress, n)
	r.status[n] = types.Cancelled
	r.runErr.Cancelled = append(r.runErr.Cancelled, n)
	r.cond.Broadcast()
}

func (r *schedulerRun) anyInProgress(nodes []*types.Node) bool {
	for _, n := range nodes {
		if _, exists := r.inProgress[n]; exists {
			return true
		}
	}
	return false
}

// unfinishedPredecessor returns the first predecessor that ended without completing.
func (r *schedulerRun) unfinishedPredecessor(predecessors []*types.Node) *types.Node {
	for _, p := range predecessors {
		if r.status[p] != types.Completed {
			return p
		}
	}
	return nil
}
