package dp

import (
	"runtime"
	"sync"
)

// DefaultWorkers is the worker count used when none is configured.
func DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// parallelFor splits [0, n) into contiguous chunks and runs fn on each chunk
// in its own goroutine. It returns the error of the lowest-indexed failing
// chunk, so callers that stop at the first failure inside a chunk always see
// the failure with the lowest index.
func parallelFor(n, workers, minChunk int, fn func(start, end int) error) error {
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers <= 1 {
		return fn(0, n)
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(w, s, e int) {
			defer wg.Done()
			errs[w] = fn(s, e)
		}(w, start, end)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
