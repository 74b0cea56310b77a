package engine

import "sync"

// runIndexed executes fn(i) for every i in [0, n), fanning out over at
// most workers goroutines. Callers write results into index-distinct
// slots of a preallocated slice, so the merged output is identical
// regardless of scheduling order.
func runIndexed(workers, n int, fn func(int)) {
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}
