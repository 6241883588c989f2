package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunBatches_ResultsInInputOrder(t *testing.T) {
	t.Parallel()

	items := []int{0, 1, 2, 3, 4, 5, 6}
	results := runBatches(context.Background(), items, 3, func(_ context.Context, n int) string {
		return fmt.Sprintf("r%d", n)
	})

	assert.Equal(t, []string{"r0", "r1", "r2", "r3", "r4", "r5", "r6"}, results)
}

func TestRunBatches_BoundsConcurrency(t *testing.T) {
	t.Parallel()

	const width = 4

	var inFlight, peak atomic.Int64
	var mu sync.Mutex

	runBatches(context.Background(), make([]int, 20), width, func(_ context.Context, _ int) struct{} {
		n := inFlight.Add(1)
		mu.Lock()
		if n > peak.Load() {
			peak.Store(n)
		}
		mu.Unlock()
		inFlight.Add(-1)
		return struct{}{}
	})

	assert.LessOrEqual(t, peak.Load(), int64(width))
}

func TestRunBatches_ZeroWidthStillProcesses(t *testing.T) {
	t.Parallel()

	results := runBatches(context.Background(), []int{1, 2}, 0, func(_ context.Context, n int) int {
		return n * 2
	})
	assert.Equal(t, []int{2, 4}, results)
}

func TestRunBatches_EmptyInput(t *testing.T) {
	t.Parallel()

	results := runBatches(context.Background(), nil, 3, func(_ context.Context, n int) int { return n })
	assert.Empty(t, results)
}
