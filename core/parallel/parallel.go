// Package parallel provides range-splitting helpers for data-parallel work
// such as batch assembly in the dataset loader.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize splits items across one worker per CPU core and runs fn on
// each contiguous range [start, end).
func Parallelize(items int, fn func(start, end int)) {
	ParallelizeWorkers(items, runtime.NumCPU(), fn)
}

// ParallelizeWorkers splits items across at most workers goroutines and
// runs fn on each contiguous range [start, end). With workers <= 1 the work
// runs sequentially on the calling goroutine.
func ParallelizeWorkers(items, workers int, fn func(start, end int)) {
	if items == 0 {
		return
	}
	if workers <= 1 || items == 1 {
		fn(0, items)
		return
	}
	if workers > items {
		workers = items
	}

	// Ceiling division so every item is covered.
	chunkSize := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs sequentially below the threshold and in
// parallel above it.
func ParallelizeWithThreshold(items, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}
