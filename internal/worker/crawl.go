package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/vbascerano/dossier/internal/model"
)

// Enricher fetches one URL and fills the document in place.
type Enricher interface {
	Enrich(ctx context.Context, d *model.WebDoc) error
}

// FetchJob fetches and extracts one seed document, pacing through the
// per-domain limiter first.
type FetchJob struct {
	Doc      *model.WebDoc
	Enricher Enricher
	Limiter  *Limiter
}

// FetchResult is the outcome of one FetchJob.
type FetchResult struct {
	Doc *model.WebDoc
	Err error
}

// Execute runs the fetch. A failure is isolated to this document.
func (j *FetchJob) Execute(ctx context.Context) FetchResult {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Doc.URL); err != nil {
			return FetchResult{Doc: j.Doc, Err: err}
		}
	}
	if err := j.Enricher.Enrich(ctx, j.Doc); err != nil {
		return FetchResult{Doc: j.Doc, Err: err}
	}
	return FetchResult{Doc: j.Doc}
}

// Crawl fetches the seeds through a bounded pool and returns the
// successfully enriched documents plus the per-URL failure count. Seed
// order is not preserved; ranking reorders everything downstream anyway.
func Crawl(ctx context.Context, seeds []*model.WebDoc, enricher Enricher, limiter *Limiter, workers int) ([]*model.WebDoc, int) {
	if len(seeds) == 0 {
		return nil, 0
	}

	pool := NewPool(ctx, workers)
	pool.Start()

	// Submit from a goroutine: the pool's channels hold only a few jobs
	// per worker, so the seed list can exceed capacity and the producer
	// must not block the drain below.
	go func() {
		for _, s := range seeds {
			pool.Submit(&FetchJob{Doc: s, Enricher: enricher, Limiter: limiter})
		}
		pool.Close()
	}()

	var docs []*model.WebDoc
	failed := 0
	for _, r := range pool.Wait() {
		if r.Err != nil {
			failed++
			continue
		}
		docs = append(docs, r.Doc)
	}
	return docs, failed
}

// ReadLines reads non-empty, non-comment lines from a file, deduplicated
// in order. Used by batch mode for query lists.
func ReadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return lines, nil
}
