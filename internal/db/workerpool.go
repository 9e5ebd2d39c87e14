package db

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// WorkerPool dispatches feature requests against read-only snapshots
// (spec.md §5): "Long-running work... is offloaded to a bounded worker
// pool. Each worker receives a read-only snapshot of the store plus
// request parameters; workers never mutate the store." Built on
// golang.org/x/sync/errgroup, matching the teacher's declared dependency.
type WorkerPool struct {
	limit int
}

// NewWorkerPool creates a pool that runs at most limit tasks concurrently.
func NewWorkerPool(limit int) *WorkerPool {
	if limit <= 0 {
		limit = 1
	}
	return &WorkerPool{limit: limit}
}

// Task is one unit of work dispatched against a snapshot. It must not
// mutate the Store it was handed a snapshot of (§5 "workers never mutate
// the store and never hold locks across suspension points").
type Task func(ctx context.Context, snap *Snapshot) error

// Run executes tasks concurrently, bounded by the pool's limit, all against
// the same snapshot. It returns the first error encountered, if any;
// per §5 cancellation semantics, a caller that gives up on the result
// should cancel ctx rather than expect Run to abort early on its own.
func (p *WorkerPool) Run(ctx context.Context, snap *Snapshot, tasks ...Task) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.limit)
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			return task(gctx, snap)
		})
	}
	return g.Wait()
}
