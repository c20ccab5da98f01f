package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vbascerano/dossier/internal/model"
)

// hookEnricher drives the pool tests: optional delay, failure, and
// start/end hooks for concurrency tracking.
type hookEnricher struct {
	delay time.Duration
	fail  bool
	count *int32
	start func()
	end   func()
}

func (e *hookEnricher) Enrich(ctx context.Context, _ *model.WebDoc) error {
	if e.count != nil {
		atomic.AddInt32(e.count, 1)
	}
	if e.start != nil {
		e.start()
	}
	if e.delay > 0 {
		select {
		case <-time.After(e.delay):
		case <-ctx.Done():
			if e.end != nil {
				e.end()
			}
			return ctx.Err()
		}
	}
	if e.end != nil {
		e.end()
	}
	if e.fail {
		return errors.New("fetch failed")
	}
	return nil
}

func job(e Enricher, url string) *FetchJob {
	return &FetchJob{Doc: &model.WebDoc{URL: url}, Enricher: e}
}

func TestNewPool(t *testing.T) {
	if p := NewPool(context.Background(), 5); p.workers != 5 {
		t.Errorf("expected 5 workers, got %d", p.workers)
	}
	if p := NewPool(context.Background(), 0); p.workers != 1 {
		t.Errorf("expected floor of 1 worker, got %d", p.workers)
	}
	if p := NewPool(context.Background(), -1); p.workers != 1 {
		t.Errorf("expected floor of 1 worker, got %d", p.workers)
	}
}

func TestPool_Execution(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()

	var executed int32
	count := 10
	for i := 0; i < count; i++ {
		pool.Submit(job(&hookEnricher{count: &executed}, fmt.Sprintf("https://x.example/%d", i)))
	}
	pool.Close()

	results := pool.Wait()
	if len(results) != count {
		t.Errorf("expected %d results, got %d", count, len(results))
	}
	if atomic.LoadInt32(&executed) != int32(count) {
		t.Errorf("expected %d executed jobs, got %d", count, executed)
	}
}

func TestPool_ConcurrencyBound(t *testing.T) {
	workers := 10
	pool := NewPool(context.Background(), workers)
	pool.Start()

	var current, maxConcurrent, completed int32
	var mu sync.Mutex

	totalJobs := 50
	go func() {
		for i := 0; i < totalJobs; i++ {
			pool.Submit(job(&hookEnricher{
				delay: 10 * time.Millisecond,
				start: func() {
					curr := atomic.AddInt32(&current, 1)
					mu.Lock()
					if curr > maxConcurrent {
						maxConcurrent = curr
					}
					mu.Unlock()
				},
				end: func() {
					atomic.AddInt32(&current, -1)
					atomic.AddInt32(&completed, 1)
				},
			}, fmt.Sprintf("https://x.example/%d", i)))
		}
		pool.Close()
	}()

	pool.Wait()

	if atomic.LoadInt32(&completed) != int32(totalJobs) {
		t.Errorf("expected %d completed jobs, got %d", totalJobs, completed)
	}
	mu.Lock()
	max := maxConcurrent
	mu.Unlock()
	if max > int32(workers) {
		t.Errorf("max concurrency %d exceeded workers %d", max, workers)
	}
}

func TestPool_ErrorsInResults(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()

	pool.Submit(job(&hookEnricher{fail: true}, "https://x.example/bad"))
	pool.Submit(job(&hookEnricher{}, "https://x.example/ok"))
	pool.Close()

	results := pool.Wait()
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("expected 1 error, got %d", failed)
	}
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()
	pool.Shutdown()

	done := make(chan struct{})
	go func() {
		pool.Submit(job(&hookEnricher{}, "https://x.example/late"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Submit after shutdown blocked")
	}
}

func TestPool_Shutdown(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()

	started := make(chan struct{})
	pool.Submit(job(&hookEnricher{
		delay: 200 * time.Millisecond,
		start: func() { close(started) },
	}, "https://x.example/slow"))
	<-started

	pool.Shutdown()

	done := make(chan struct{})
	go func() {
		for range pool.results {
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("Shutdown timed out")
	}
}
