// Package parallel provides data-parallel loop helpers for CPU kernels.
package parallel

import (
	"runtime"
	"sync"

	"github.com/klauspost/cpuid/v2"
)

// minParallelSize is the element count below which goroutine overhead
// outweighs the parallel speedup and loops run serially.
const minParallelSize = 4096

var workers = defaultWorkers()

// defaultWorkers prefers the physical core count: elementwise kernels are
// memory-bound and gain nothing from hyperthread siblings.
func defaultWorkers() int {
	if n := cpuid.CPU.PhysicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Workers returns the number of workers parallel loops use.
func Workers() int { return workers }

// For runs fn over [0, n) index chunks, splitting across workers when n is
// large enough to pay for the goroutines. fn receives a half-open range.
func For(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if n < minParallelSize || workers <= 1 {
		fn(0, n)
		return
	}

	chunks := workers
	if chunks > n {
		chunks = n
	}
	chunkSize := (n + chunks - 1) / chunks

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
