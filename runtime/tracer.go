package runtime

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/warriorguo/depflow/store"
	"github.com/warriorguo/depflow/types"
	"github.com/warriorguo/depflow/utils"
)

const (
	RecordPath = "/record/"
)

var (
	_ Hook = &tracer{}
)

func recordSavePath(runID string) string {
	return RecordPath + runID + "/"
}

func recordKey(index int) string {
	return fmt.Sprintf("%06d", index)
}

/**
 * tracer writes one NodeTraceRecord per node of a run into the store.
 * Records are keyed by the node's construction index in the graph.
 */
type tracer struct {
	mu sync.Mutex

	ctx   context.Context
	store store.Store
	runID string
	g     types.DAG

	records map[*types.Node]*types.NodeTraceRecord
}

func newTracer(ctx context.Context, s store.Store, runID string, g types.DAG) *tracer {
	return &tracer{
		ctx:     ctx,
		store:   s,
		runID:   runID,
		g:       g,
		records: make(map[*types.Node]*types.NodeTraceRecord, g.Len()),
	}
}

func (t *tracer) record(n *types.Node) *types.NodeTraceRecord {
	if r, exists := t.records[n]; exists {
		return r
	}
	index, _ := t.g.Index(n)
	r := types.NewNodeTraceRecord(index, n)
	t.records[n] = r
	return r
}

func (t *tracer) NodeStarted(n *types.Node) {
	log.Infof("%s started", n)

	t.mu.Lock()
	r := t.record(n)
	r.Status = types.Running
	r.StartTime = time.Now()
	t.mu.Unlock()

	t.save(r)
}

func (t *tracer) NodeFinished(n *types.Node, status types.StatusType, err error) {
	if err != nil {
		log.Infof("%s %s: %v", n, status, err)
	} else {
		log.Infof("%s done", n)
	}

	t.mu.Lock()
	r := t.record(n)
	r.Status = status
	r.EndTime = time.Now()
	if err != nil {
		r.Error = errors.ErrorStack(err)
	}
	t.mu.Unlock()

	t.save(r)
}

func (t *tracer) save(r *types.NodeTraceRecord) {
	t.mu.Lock()
	b, err := utils.Serialize(r)
	t.mu.Unlock()
	if err != nil {
		log.Errorf("%s failed to serialize record of %s: %v", t.runID, r.Label, err)
		return
	}
	if err := t.store.Set(t.ctx, recordSavePath(t.runID), recordKey(r.Index), b); err != nil {
		log.Errorf("%s failed to save record of %s: %v", t.runID, r.Label, err)
	}
}

// LoadRecords reads the trace records of runID keyed by node construction index.
func LoadRecords(ctx context.Context, s store.Store, runID string) (map[int]*types.NodeTraceRecord, error) {
	records := make(map[int]*types.NodeTraceRecord)
	recordPath := recordSavePath(runID)
	err := s.List(ctx, recordPath, func(key string) bool {
		index, err := strconv.Atoi(key)
		if err != nil {
			log.Errorf("unexpected record key %s%s", recordPath, key)
			return true
		}
		b, err := s.Get(ctx, recordPath, key)
		if err != nil {
			log.Errorf("load %s %s from store failed: %v", recordPath, key, err)
			return true
		}
		record := &types.NodeTraceRecord{}
		if err := utils.Unserialize(b, record); err != nil {
			log.Errorf("unserialize %s %s from store:%s failed: %v", recordPath, key, string(b), err)
			return true
		}
		records[index] = record
		return true
	})
	return records, errors.Trace(err)
}
