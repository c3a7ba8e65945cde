package imgcompress

import (
	"runtime"
	"sync"
)

// ProgressFunc receives the number of processed blocks and the total.
// Calls are serialized and done is strictly increasing.
type ProgressFunc func(done, total int)

// resolveWorkers returns a usable worker count for n units of work.
func resolveWorkers(workers, n int) int {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// forEachBlockRow calls fn for every block row, spread over workers goroutines.
// Each row must touch only its own disjoint output region.
func forEachBlockRow(rows, blocksPerRow, workers int, progress ProgressFunc, fn func(row int)) {
	total := rows * blocksPerRow
	workers = resolveWorkers(workers, rows)

	var (
		mu   sync.Mutex
		done int
	)
	report := func() {
		if progress == nil {
			return
		}
		mu.Lock()
		done += blocksPerRow
		progress(done, total)
		mu.Unlock()
	}

	if workers == 1 {
		for row := 0; row < rows; row++ {
			fn(row)
			report()
		}
		return
	}

	next := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for row := range next {
				fn(row)
				report()
			}
		}()
	}
	for row := 0; row < rows; row++ {
		next <- row
	}
	close(next)
	wg.Wait()
}
