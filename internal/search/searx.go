// Package search collects candidate URLs from a SearXNG instance and,
// optionally, the ReliefWeb reports API.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vbascerano/dossier/internal/model"
	"github.com/vbascerano/dossier/internal/util"
)

// Client queries a SearXNG instance over its JSON API.
type Client struct {
	httpClient *http.Client
	cfg        model.SearchConfig
	userAgent  string
}

// NewClient creates a SearXNG client from the search and HTTP config.
func NewClient(cfg model.SearchConfig, httpCfg model.HTTPConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: httpCfg.Timeout},
		cfg:        cfg,
		userAgent:  httpCfg.UserAgent,
	}
}

type searxResult struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	Snippet       string `json:"snippet"`
	PublishedDate string `json:"publishedDate"`
	Published     string `json:"published"`
	Engine        string `json:"engine"`
	Source        string `json:"source"`
}

type searxResponse struct {
	Results []searxResult `json:"results"`
}

// endpoint accepts either a bare instance URL or one already ending in
// /search, the way reverse-proxied deployments are usually configured.
func endpoint(base string) string {
	if strings.HasSuffix(strings.TrimRight(base, "/"), "/search") {
		return base
	}
	return strings.TrimRight(base, "/") + "/search"
}

// Search runs the query against SearXNG, paging up to cfg.Pages, and
// returns normalized seed documents. A failed page is skipped rather than
// failing the whole collection; an entirely unreachable instance yields
// an empty slice and the last error.
func (c *Client) Search(ctx context.Context, query string) ([]*model.WebDoc, error) {
	var docs []*model.WebDoc
	var lastErr error

	searchURL := endpoint(c.cfg.SearxURL)
	for page := 1; page <= c.cfg.Pages; page++ {
		if page > 1 {
			sleepBetweenPages()
		}
		results, err := c.searchPage(ctx, searchURL, query, page)
		if err != nil {
			lastErr = err
			continue
		}
		if len(results) > c.cfg.PageSize {
			results = results[:c.cfg.PageSize]
		}
		for _, r := range results {
			if r.URL == "" {
				continue
			}
			snippet := r.Content
			if snippet == "" {
				snippet = r.Snippet
			}
			published := r.PublishedDate
			if published == "" {
				published = r.Published
			}
			docs = append(docs, &model.WebDoc{
				URL:       r.URL,
				Title:     r.Title,
				Snippet:   snippet,
				Published: util.ToISODate(published),
				Engine:    r.Engine,
				Source:    r.Source,
			})
		}
	}

	if len(docs) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return docs, nil
}

func (c *Client) searchPage(ctx context.Context, searchURL, query string, page int) ([]searxResult, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("time_range", c.cfg.TimeRange)
	params.Set("language", c.cfg.Language)
	params.Set("categories", c.cfg.Categories)
	params.Set("engines", c.cfg.Engines)
	params.Set("pageno", fmt.Sprintf("%d", page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searxng page %d: %w", page, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("searxng page %d: unexpected status %d", page, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read searxng response: %w", err)
	}
	if len(body) == 0 {
		return nil, nil
	}

	var parsed searxResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode searxng response: %w", err)
	}
	return parsed.Results, nil
}

// UniqueByURL drops repeated URLs from merged collector output, keeping
// first occurrence order.
func UniqueByURL(docs []*model.WebDoc) []*model.WebDoc {
	seen := make(map[string]bool, len(docs))
	out := docs[:0:0]
	for _, d := range docs {
		if d.URL == "" || seen[d.URL] {
			continue
		}
		seen[d.URL] = true
		out = append(out, d)
	}
	return out
}

// sleepBetweenPages paces multi-page collection. Kept as a variable so
// tests run without delay.
var sleepBetweenPages = func() { time.Sleep(700 * time.Millisecond) }
