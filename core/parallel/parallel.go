// Package parallel provides small helpers for fanning independent work out
// across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize splits items into contiguous chunks and runs fn(start, end)
// for each chunk on its own goroutine, using one worker per CPU core.
// It returns once every chunk has completed.
func Parallelize(items int, fn func(start, end int)) {
	ParallelizeWorkers(items, runtime.NumCPU(), fn)
}

// ParallelizeWorkers is Parallelize with an explicit worker count.
// A worker count below 2 degenerates to a single sequential call, which
// keeps call sites free of a separate sequential branch.
func ParallelizeWorkers(items, workers int, fn func(start, end int)) {
	if items == 0 {
		return
	}
	if workers < 2 || items == 1 {
		fn(0, items)
		return
	}
	if workers > items {
		workers = items
	}

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
