// Package fetch retrieves pages and extracts their text, title, language
// and publication date into working documents.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/vbascerano/dossier/internal/cache"
	"github.com/vbascerano/dossier/internal/model"
)

var livePatterns = []string{"live", "diretta", "liveblog", "live-blog", "in-diretta"}

// Fetcher downloads pages with a bounded body size and a short redirect
// chain, honoring robots.txt when configured.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *Robots
	store      cache.Cache
}

// NewFetcher creates a Fetcher. robots and store may be nil to disable
// the robots gate and the fetch cache.
func NewFetcher(cfg model.HTTPConfig, robots *Robots, store cache.Cache) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		robots:    robots,
		store:     store,
	}
}

// page is the cached extraction result for one URL.
type page struct {
	Title        string `json:"title"`
	Text         string `json:"text"`
	Lang         string `json:"lang"`
	Domain       string `json:"domain"`
	Hash         string `json:"hash"`
	DetectedDate string `json:"detected_date"`
	Mime         string `json:"mime"`
	IsLive       bool   `json:"is_live"`
}

// Enrich fetches d.URL and fills the extraction fields in place. Seed
// fields from the search stage (snippet, published, engine) are kept.
func (f *Fetcher) Enrich(ctx context.Context, d *model.WebDoc) error {
	if d.URL == "" {
		return fmt.Errorf("empty url")
	}

	if f.store != nil {
		if raw, ok := f.store.Get(cache.Key(d.URL)); ok {
			var p page
			if err := json.Unmarshal(raw, &p); err == nil {
				apply(d, &p)
				return nil
			}
		}
	}

	if f.robots != nil {
		allowed, err := f.robots.Allowed(ctx, d.URL)
		if err == nil && !allowed {
			return fmt.Errorf("disallowed by robots.txt: %s", d.URL)
		}
	}

	p, err := f.fetch(ctx, d.URL)
	if err != nil {
		return err
	}
	apply(d, p)

	if f.store != nil {
		if raw, err := json.Marshal(p); err == nil {
			_ = f.store.Set(cache.Key(d.URL), raw, 0)
		}
	}
	return nil
}

func apply(d *model.WebDoc, p *page) {
	d.Title = firstNonEmpty(p.Title, d.Title)
	d.Text = p.Text
	d.Lang = p.Lang
	d.Domain = p.Domain
	d.Hash = p.Hash
	d.DetectedDate = p.DetectedDate
	d.Mime = p.Mime
	d.IsLive = p.IsLive
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (*page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "it-IT,it;q=0.9,en;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	ctype := strings.ToLower(resp.Header.Get("Content-Type"))
	finalURL := resp.Request.URL.String()
	domain := DomainOf(finalURL)

	// PDF bodies are recorded but not extracted.
	if strings.Contains(ctype, "application/pdf") || strings.HasSuffix(strings.ToLower(rawURL), ".pdf") {
		return &page{
			Title:  clip(rawURL, 200),
			Domain: domain,
			Lang:   "unknown",
			Mime:   "application/pdf",
		}, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	htmlSrc := string(body)

	title, text := ExtractText(htmlSrc)
	if title == "" {
		title = rawURL
	}

	p := &page{
		Title:        clip(title, 200),
		Text:         text,
		Lang:         SniffLang(text),
		Domain:       domain,
		Hash:         model.SHA256Text(text),
		DetectedDate: DetectDate(htmlSrc),
		Mime:         "text/html",
		IsLive:       LooksLive(finalURL, title),
	}
	return p, nil
}

// LooksLive reports whether URL or title suggest a live blog, which is
// penalized downstream as a low-signal format.
func LooksLive(rawURL, title string) bool {
	u, t := strings.ToLower(rawURL), strings.ToLower(title)
	for _, p := range livePatterns {
		if strings.Contains(u, p) || strings.Contains(t, p) {
			return true
		}
	}
	return false
}

// DomainOf returns the lower-cased host without the www prefix.
func DomainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// clip truncates to at most n bytes without splitting a rune.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
