package engine

import (
	"context"
	"log/slog"
	"sync"
)

// progressEvery controls how often the runner logs batch progress.
const progressEvery = 50

// Runner executes a batch of references against one engine. Each decision
// depends only on the shared read-only index, so the per-reference loop is
// safe to fan out across workers without locking.
type Runner struct {
	Engine *Engine
	// Concurrency bounds the worker pool. Values below 1 run sequentially.
	Concurrency int
}

// Run decides every reference and returns results in input order: workers
// write into their own slot, never a shared channel that could reorder.
// A cancelled context stops scoring; remaining references are marked
// NOT_FOUND with a cancellation note rather than dropped, so output stays
// parallel to input.
func (r *Runner) Run(ctx context.Context, refs []string) []Result {
	results := make([]Result, len(refs))

	concurrency := r.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	slog.Info("Processing references", "total", len(refs), "concurrency", concurrency)

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)

	for i, raw := range refs {
		wg.Add(1)
		go func(idx int, raw string) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			if ctx.Err() != nil {
				results[idx] = Result{
					Reference:      raw,
					Classification: ClassBook,
					Status:         StatusNotFound,
					Explanation:    "run cancelled before this reference was scored",
				}
				return
			}

			results[idx] = r.Engine.Decide(raw)

			if (idx+1)%progressEvery == 0 {
				slog.Info("Processing references", "done", idx+1, "total", len(refs))
			}
		}(i, raw)
	}

	wg.Wait()
	return results
}
