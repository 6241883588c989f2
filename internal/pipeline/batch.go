package pipeline

import (
	"context"
	"sync"
)

// runBatches processes items in fixed-size concurrency batches: every
// request in a batch is issued together and the batch settles fully
// before the next one starts, bounding simultaneous outbound
// connections. Results land at their item's input index, so output
// order matches input order regardless of completion order. fn must
// encode per-item failure in its result; nothing escapes the batch.
func runBatches[T, R any](ctx context.Context, items []T, width int, fn func(ctx context.Context, item T) R) []R {
	if width <= 0 {
		width = 1
	}

	results := make([]R, len(items))
	for start := 0; start < len(items); start += width {
		end := min(start+width, len(items))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				results[idx] = fn(ctx, items[idx])
			}(i)
		}
		wg.Wait()
	}
	return results
}
