package paf

import (
	"context"
	"sync"

	"github.com/johnsiilver/pools/goroutines"
	"github.com/johnsiilver/pools/goroutines/pooled"
	"go.uber.org/atomic"
)

// columnPool fans ProcessDataFrame's per-column loop out across a fixed
// number of goroutines instead of running it serially, the same shape
// goroutines/pooled.Pool uses for Submit/Wait (spec.md §5, "implementations
// are free to parallelize column iteration").
type columnPool struct {
	pool      *pooled.Pool
	inFlight  atomic.Int64
	resultsMu sync.Mutex
}

func newColumnPool(size int) (*columnPool, error) {
	p, err := pooled.New(size)
	if err != nil {
		return nil, err
	}
	return &columnPool{pool: p}, nil
}

// runAll submits one Job per input index, waits for all of them, and
// returns their results in the original index order.
func (cp *columnPool) runAll(ctx context.Context, n int, run func(i int) ColumnResult) []ColumnResult {
	results := make([]ColumnResult, n)
	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		i := i
		job := goroutines.Job(func(ctx context.Context) {
			defer wg.Done()
			cp.inFlight.Add(1)
			defer cp.inFlight.Add(-1)

			r := run(i)

			cp.resultsMu.Lock()
			results[i] = r
			cp.resultsMu.Unlock()
		})
		_ = cp.pool.Submit(ctx, job)
	}

	wg.Wait()
	return results
}

// InFlight reports how many columns are currently being processed,
// exposed for tests and debugging (SPEC_FULL.md §5).
func (cp *columnPool) InFlight() int64 {
	return cp.inFlight.Load()
}

func (cp *columnPool) Close() {
	cp.pool.Close()
}
