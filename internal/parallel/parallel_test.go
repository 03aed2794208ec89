package parallel_test

import (
	"sync/atomic"
	"testing"

	"github.com/fern-ml/fern/internal/parallel"
)

func TestForCoversRangeOnce(t *testing.T) {
	for _, n := range []int{0, 1, 100, 5000, 100001} {
		var visits atomic.Int64
		parallel.For(n, func(start, end int) {
			if start < 0 || end > n || start > end {
				t.Errorf("n=%d: bad chunk [%d, %d)", n, start, end)
			}
			visits.Add(int64(end - start))
		})
		if visits.Load() != int64(n) {
			t.Errorf("n=%d: visited %d indices", n, visits.Load())
		}
	}
}

func TestForDisjointChunks(t *testing.T) {
	const n = 50000
	marks := make([]int32, n)
	parallel.For(n, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&marks[i], 1)
		}
	})
	for i, m := range marks {
		if m != 1 {
			t.Fatalf("index %d visited %d times", i, m)
		}
	}
}

func TestWorkersPositive(t *testing.T) {
	if parallel.Workers() < 1 {
		t.Errorf("Workers() = %d", parallel.Workers())
	}
}
