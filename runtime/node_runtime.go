package runtime

import (
	"context"
	"sync/atomic"

	"github.com/juju/errors"
	"github.com/warriorguo/depflow/types"
)

// Hook observes node executions. Calls for one node never overlap.
type Hook interface {
	// NodeStarted is called on the worker right before the work function.
	NodeStarted(n *types.Node)
	/**
	 * NodeFinished is called once per node with its terminal status.
	 * For executed nodes it runs before any dependent can be dispatched.
	 * Skipped and cancelled nodes get NodeFinished without NodeStarted.
	 */
	NodeFinished(n *types.Node, status types.StatusType, err error)
}

type hooks []Hook

func (hs hooks) started(n *types.Node) {
	for _, h := range hs {
		h.NodeStarted(n)
	}
}

func (hs hooks) finished(n *types.Node, status types.StatusType, err error) {
	for _, h := range hs {
		h.NodeFinished(n, status, err)
	}
}

// RunStats counts node outcomes of one run.
type RunStats struct {
	Dispatched int64
	Succeeded  int64
	Failed     int64
	Skipped    int64
	Cancelled  int64
	// PeakRunning is the highest number of work functions seen active at once.
	PeakRunning int32

	currentRunning int32
}

func (s *RunStats) enter() {
	current := atomic.AddInt32(&s.currentRunning, 1)
	for {
		peak := atomic.LoadInt32(&s.PeakRunning)
		if current <= peak || atomic.CompareAndSwapInt32(&s.PeakRunning, peak, current) {
			return
		}
	}
}

func (s *RunStats) exit(err error) {
	atomic.AddInt32(&s.currentRunning, -1)
	if err != nil {
		atomic.AddInt64(&s.Failed, 1)
	} else {
		atomic.AddInt64(&s.Succeeded, 1)
	}
}

// CurrentRunning is zero whenever no run is in flight.
func (s *RunStats) CurrentRunning() int32 {
	return atomic.LoadInt32(&s.currentRunning)
}

func (s *RunStats) snapshot() RunStats {
	return RunStats{
		Dispatched:     atomic.LoadInt64(&s.Dispatched),
		Succeeded:      atomic.LoadInt64(&s.Succeeded),
		Failed:         atomic.LoadInt64(&s.Failed),
		Skipped:        atomic.LoadInt64(&s.Skipped),
		Cancelled:      atomic.LoadInt64(&s.Cancelled),
		PeakRunning:    atomic.LoadInt32(&s.PeakRunning),
		currentRunning: atomic.LoadInt32(&s.currentRunning),
	}
}

// runWork calls fn on n, turning a panic into an error.
func runWork(ctx context.Context, n *types.Node, fn types.WorkFunc, stats *RunStats, hs hooks) (value any, retErr error) {
	hs.started(n)
	stats.enter()
	defer func() {
		if r := recover(); r != nil {
			value, retErr = nil, errors.Errorf("panic on %s: %v", n, r)
		}
		stats.exit(retErr)

		status := types.Completed
		if retErr != nil {
			status = types.Failed
		}
		hs.finished(n, status, retErr)
	}()

	return fn(ctx, n)
}
