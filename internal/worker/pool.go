// Package worker runs the fetch stage: a bounded pool of goroutines
// paced by a per-host rate limiter.
package worker

import (
	"context"
	"sync"
)

// Pool fans fetch jobs out to a fixed number of goroutines. Channels are
// buffered so producers rarely block; Wait drains every outcome exactly
// once.
type Pool struct {
	workers  int
	jobs     chan *FetchJob
	results  chan FetchResult
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	jobsOnce sync.Once
	resOnce  sync.Once
}

// NewPool creates a pool bound to ctx. Cancelling ctx stops intake and
// lets running fetches wind down.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Pool{
		workers: workers,
		jobs:    make(chan *FetchJob, workers*2),
		results: make(chan FetchResult, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			res := job.Execute(p.ctx)
			select {
			case p.results <- res:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues one job. After cancellation it returns without blocking.
func (p *Pool) Submit(job *FetchJob) {
	select {
	case <-p.ctx.Done():
	case p.jobs <- job:
	}
}

// Close ends intake. The producer calls it after the last Submit.
func (p *Pool) Close() {
	p.jobsOnce.Do(func() {
		close(p.jobs)
	})
}

// Wait drains outcomes until the workers finish and returns them all.
// The channels are bounded, so drain concurrently with submission when
// the job count can exceed the pool capacity; Close must be called once
// submission ends or Wait never returns.
func (p *Pool) Wait() []FetchResult {
	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var out []FetchResult
	for r := range p.results {
		out = append(out, r)
	}
	return out
}

// Shutdown cancels the pool immediately without draining.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.resOnce.Do(func() {
		close(p.results)
	})
}
