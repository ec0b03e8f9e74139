package runtime

import (
	"context"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/warriorguo/depflow/types"
)

/**
 * RunSerially applies fn to each node of order, one at a time and in order.
 * The first failure stops the run and is returned as *types.WorkError together
 * with the results gathered so far.
 */
func RunSerially(ctx context.Context, order []*types.Node, fn types.WorkFunc, hs ...Hook) (types.Results, error) {
	stats := &RunStats{}
	return runSerially(ctx, order, fn, stats, hs)
}

func runSerially(ctx context.Context, order []*types.Node, fn types.WorkFunc, stats *RunStats, hs hooks) (types.Results, error) {
	if fn == nil {
		return nil, types.NewConfigErrorf("work function is nil")
	}

	results := make(types.Results, len(order))
	for i, n := range order {
		if err := ctx.Err(); err != nil {
			for _, rest := range order[i:] {
				stats.Cancelled++
				hs.finished(rest, types.Cancelled, types.ErrCancelled)
			}
			return results, errors.Annotatef(err, "serial run stopped before %s", n)
		}

		stats.Dispatched++
		value, err := runWork(ctx, n, fn, stats, hs)
		if err != nil {
			log.Errorf("%s failed: %v", n, err)
			return results, types.NewWorkError(n, err)
		}
		log.Debugf("%s done", n)
		results[n] = value
	}
	return results, nil
}
