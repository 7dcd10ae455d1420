package scanner

import (
	"sync"

	"thumbnailer/signalhandler"
	"thumbnailer/types"
)

// WorkerPool runs jobs on a fixed number of goroutines. The size is set
// once at construction.
type WorkerPool struct {
	size int
}

// NewWorkerPool creates a pool of n workers. A non-positive n selects the
// platform default.
func NewWorkerPool(n int) *WorkerPool {
	if n <= 0 {
		n = signalhandler.DefaultWorkers()
	}
	return &WorkerPool{size: n}
}

// Size returns the number of workers
func (p *WorkerPool) Size() int {
	return p.size
}

// Run calls work once per job on at most Size() goroutines and sends each
// outcome to results. It blocks until every job is done and every outcome
// has been sent; it does not close results.
func (p *WorkerPool) Run(jobs []types.Job, work func(types.Job) types.Outcome, results chan<- types.Outcome) {
	queue := make(chan types.Job)

	var wg sync.WaitGroup
	for i := 0; i < p.size; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				results <- work(job)
			}
		}()
	}

	for _, job := range jobs {
		queue <- job
	}
	close(queue)
	wg.Wait()
}
