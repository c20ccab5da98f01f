package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vbascerano/dossier/internal/model"
)

// stubEnricher fails on URLs containing "bad" and marks the rest.
type stubEnricher struct{}

func (stubEnricher) Enrich(_ context.Context, d *model.WebDoc) error {
	if strings.Contains(d.URL, "bad") {
		return errors.New("boom")
	}
	d.Title = "enriched"
	return nil
}

func TestCrawl_IsolatesFailures(t *testing.T) {
	var seeds []*model.WebDoc
	for i := 0; i < 10; i++ {
		seeds = append(seeds, &model.WebDoc{URL: fmt.Sprintf("https://ok.example/%d", i)})
	}
	seeds = append(seeds,
		&model.WebDoc{URL: "https://bad.example/1"},
		&model.WebDoc{URL: "https://bad.example/2"},
	)

	docs, failed := Crawl(context.Background(), seeds, stubEnricher{}, nil, 4)
	if len(docs) != 10 {
		t.Errorf("got %d docs, want 10", len(docs))
	}
	if failed != 2 {
		t.Errorf("failed = %d, want 2", failed)
	}
	for _, d := range docs {
		if d.Title != "enriched" {
			t.Errorf("doc %s not enriched", d.URL)
		}
	}
}

func TestCrawl_SeedsExceedPoolCapacity(t *testing.T) {
	// A narrow pool buffers only a handful of jobs, so the seed list must
	// drain through without the producer stalling against full channels.
	var seeds []*model.WebDoc
	for i := 0; i < 40; i++ {
		seeds = append(seeds, &model.WebDoc{URL: fmt.Sprintf("https://ok.example/%d", i)})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	docs, failed := Crawl(ctx, seeds, stubEnricher{}, nil, 1)
	if len(docs) != 40 {
		t.Errorf("got %d docs, want 40", len(docs))
	}
	if failed != 0 {
		t.Errorf("failed = %d, want 0", failed)
	}
	if err := ctx.Err(); err != nil {
		t.Errorf("crawl ran into the deadline: %v", err)
	}
}

func TestCrawl_Empty(t *testing.T) {
	docs, failed := Crawl(context.Background(), nil, stubEnricher{}, nil, 4)
	if docs != nil || failed != 0 {
		t.Errorf("empty crawl returned %v, %d", docs, failed)
	}
}

func TestCrawl_WithLimiter(t *testing.T) {
	seeds := []*model.WebDoc{
		{URL: "https://a.example/1"},
		{URL: "https://a.example/2"},
		{URL: "https://b.example/1"},
	}
	limiter := NewLimiter(1000, 10)
	docs, failed := Crawl(context.Background(), seeds, stubEnricher{}, limiter, 2)
	if len(docs) != 3 || failed != 0 {
		t.Errorf("got %d docs, %d failed", len(docs), failed)
	}
}

func TestReadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.txt")
	content := "dazi acciaio\n\n# comment\ndazi acciaio\nsanzioni russia\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	lines, err := ReadLines(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"dazi acciaio", "sanzioni russia"}
	if len(lines) != len(want) {
		t.Fatalf("got %v", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestReadLines_MissingFile(t *testing.T) {
	if _, err := ReadLines("/nonexistent/queries.txt"); err == nil {
		t.Error("missing file should error")
	}
}
