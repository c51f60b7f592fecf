package decompress

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Scheduler runs a batch of independent jobs and returns once every job has
// finished. Jobs receive their index in [0, jobs).
type Scheduler interface {
	Run(jobs int, fn func(job int))
}

// Pool is a Scheduler backed by a bounded set of goroutines pulling job
// indices from a shared counter.
type Pool struct {
	workers int
}

// NewPool returns a pool running at most workers goroutines per batch.
// workers <= 0 uses GOMAXPROCS.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{workers: workers}
}

// Workers returns the goroutine bound of the pool.
func (p *Pool) Workers() int { return p.workers }

// Run executes fn for every job index and waits for all of them.
func (p *Pool) Run(jobs int, fn func(job int)) {
	if jobs <= 0 {
		return
	}
	procs := min(p.workers, jobs)
	if procs <= 1 {
		for j := 0; j < jobs; j++ {
			fn(j)
		}
		return
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(procs)
	for w := 0; w < procs; w++ {
		go func() {
			defer wg.Done()
			for {
				j := int(next.Add(1) - 1)
				if j >= jobs {
					return
				}
				fn(j)
			}
		}()
	}
	wg.Wait()
}

// Serial is a Scheduler that runs jobs in order on the calling goroutine.
type Serial struct{}

func (Serial) Run(jobs int, fn func(job int)) {
	for j := 0; j < jobs; j++ {
		fn(j)
	}
}
