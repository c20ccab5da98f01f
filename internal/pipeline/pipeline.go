// Package pipeline orchestrates the full run: plan, collect, fetch,
// deduplicate, rank, extract, corroborate, and assemble the validated
// report.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/vbascerano/dossier/internal/cache"
	"github.com/vbascerano/dossier/internal/dedup"
	"github.com/vbascerano/dossier/internal/evidence"
	"github.com/vbascerano/dossier/internal/fetch"
	"github.com/vbascerano/dossier/internal/llm"
	"github.com/vbascerano/dossier/internal/model"
	"github.com/vbascerano/dossier/internal/provenance"
	"github.com/vbascerano/dossier/internal/rank"
	"github.com/vbascerano/dossier/internal/search"
	"github.com/vbascerano/dossier/internal/timeline"
	"github.com/vbascerano/dossier/internal/worker"
)

// Searcher collects seed documents for one query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]*model.WebDoc, error)
}

// ReportCollector collects seed documents from a reports API.
type ReportCollector interface {
	Reports(ctx context.Context, query string, days int) ([]*model.WebDoc, error)
}

// Pipeline wires the stages together. Collectors, enricher and chatter
// are interfaces so tests run against stubs.
type Pipeline struct {
	cfg       *model.Config
	searcher  Searcher
	reliefweb ReportCollector
	enricher  worker.Enricher
	limiter   *worker.Limiter
	scorer    *rank.Scorer
	extractor *timeline.Extractor
	chatter   llm.Chatter
	llmModel  string
	prov      *provenance.Logger
	now       func() time.Time
}

// New builds a production pipeline from the configuration.
func New(cfg *model.Config) *Pipeline {
	var store cache.Cache
	if cfg.Cache.Enabled {
		store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}
	var robots *fetch.Robots
	if cfg.HTTP.RespectRobots {
		robots = fetch.NewRobots(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	}

	p := &Pipeline{
		cfg:       cfg,
		searcher:  search.NewClient(cfg.Search, cfg.HTTP),
		enricher:  fetch.NewFetcher(cfg.HTTP, robots, store),
		limiter:   worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		scorer:    rank.NewScorer(cfg.Rank),
		extractor: timeline.New(cfg.Timeline),
		prov:      provenance.New(cfg.Output.LogDir),
		now:       time.Now,
	}
	if cfg.Search.ReliefWebOn {
		p.reliefweb = search.NewReliefWeb(cfg.Search, cfg.HTTP)
	}
	if cfg.LLM.Enabled {
		client := llm.NewClient(cfg.LLM)
		p.chatter = client
		p.llmModel = client.Model()
	}
	return p
}

// Run executes the full pipeline for one query and returns a validated
// report. Window bounds may be empty; the planner's freshness criteria
// fill them in.
func (p *Pipeline) Run(ctx context.Context, query string, window model.TimeWindow) (*model.Report, error) {
	// Plan.
	plan := llm.FallbackPlan(query)
	if p.chatter != nil {
		plan = llm.PlanQuery(ctx, p.chatter, query)
	}
	p.prov.Log("planner_plan", map[string]any{"queries": plan.Queries})

	today := p.now().UTC().Format("2006-01-02")
	if window.To == "" {
		window.To = today
	}
	if window.From == "" {
		window.From = p.now().UTC().AddDate(0, 0, -plan.Criteria.FreshnessDays).Format("2006-01-02")
	}

	// Collect seeds from every planned query, plus ReliefWeb when enabled.
	var seeds []*model.WebDoc
	for _, q := range plan.Queries {
		docs, err := p.searcher.Search(ctx, q)
		if err != nil {
			p.verbose("search %q: %v", q, err)
			continue
		}
		seeds = append(seeds, docs...)
	}
	if p.reliefweb != nil {
		docs, err := p.reliefweb.Reports(ctx, query, plan.Criteria.FreshnessDays)
		if err != nil {
			p.verbose("reliefweb: %v", err)
		} else {
			seeds = append(seeds, docs...)
		}
	}
	seeds = search.UniqueByURL(seeds)
	if len(seeds) > p.cfg.Search.MaxSeeds {
		seeds = seeds[:p.cfg.Search.MaxSeeds]
	}
	p.prov.Count("search_uniq", len(seeds))
	if len(seeds) == 0 {
		return nil, fmt.Errorf("no results for query %q", query)
	}

	// Fetch and extract through the bounded pool.
	if len(seeds) > p.cfg.Search.MaxFetch {
		seeds = seeds[:p.cfg.Search.MaxFetch]
	}
	docs, failed := worker.Crawl(ctx, seeds, p.enricher, p.limiter, p.cfg.Concurrency.FetchWorkers)
	p.prov.Count("fetch_err", failed)
	p.prov.Count("crawl_done", len(docs))
	if len(docs) == 0 {
		return nil, fmt.Errorf("no fetchable documents for query %q", query)
	}

	// Drop dated documents older than the window start; undated survive.
	before := len(docs)
	fresh := docs[:0]
	for _, d := range docs {
		iso := d.BestDate()
		if len(iso) > 10 {
			iso = iso[:10]
		}
		if iso == "" || iso >= window.From {
			fresh = append(fresh, d)
		}
	}
	docs = fresh
	p.prov.Log("freshness_filter", map[string]any{"from": window.From, "before": before, "after": len(docs)})

	// Near-duplicate collapse, then ranking.
	docs, clusters := dedup.Collapse(docs, p.cfg.Dedup.SimhashBits, p.cfg.Dedup.NearDupHamming)
	p.prov.Count("dedup_clusters", clusters)
	ranked := p.scorer.Rank(docs, p.now())
	p.prov.Count("rank_done", len(ranked))

	// Reference ids are positional over the ranked head, so the timeline
	// and the summarizer can run concurrently against the same map.
	refs := refsFor(ranked, p.cfg.LLM.TopK)

	var (
		events  []timeline.Event
		summary *llm.Summary
		ents    []llm.Entity
		wg      sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		events = p.extractor.Extract(ranked, refs, window.From, window.To)
	}()
	if p.chatter != nil {
		wg.Add(2)
		go func() {
			defer wg.Done()
			summary, _ = llm.Summarize(ctx, p.chatter, ranked, p.cfg.LLM.TopK)
		}()
		go func() {
			defer wg.Done()
			ents = llm.Entities(ctx, p.chatter, ranked, p.cfg.LLM)
		}()
	}
	wg.Wait()

	// Fact-check, then keep only corroborated claims.
	var keptClaims []model.RawClaim
	var keptChecks []model.Verdict
	if p.chatter != nil && summary != nil && len(summary.Claims) > 0 {
		checks := llm.FactCheck(ctx, p.chatter, summary.Claims, refs)
		keptClaims, keptChecks = evidence.FilterClaims(summary.Claims, checks, refs, p.cfg.Evidence)
		p.prov.Log("claims_filtered", map[string]any{"in": len(summary.Claims), "kept": len(keptClaims)})
		// Feed corroboration back and re-rank with the coherence term live.
		evidence.ApplyCoherence(ranked, keptClaims, refs)
		ranked = p.scorer.Rank(ranked, p.now())
	}

	var hints []llm.RelationHint
	if p.chatter != nil && len(ents) > 0 {
		var names []string
		for _, e := range ents {
			if e.Type == "PERSON" || e.Type == "ORG" {
				names = append(names, e.Name)
			}
		}
		hints = llm.Relations(ctx, p.chatter, ranked, names, p.cfg.LLM)
	}

	crossSummary := ""
	if summary != nil {
		crossSummary = summary.CrossSummary
	}

	report, err := p.assemble(assembleInput{
		query:        query,
		window:       window,
		plan:         plan,
		ranked:       ranked,
		refs:         refs,
		claims:       keptClaims,
		checks:       keptChecks,
		events:       events,
		entities:     ents,
		relations:    hints,
		crossSummary: crossSummary,
	})
	if err != nil {
		return nil, err
	}
	p.prov.Count("report_validated", 1)
	return report, nil
}

// refsFor assigns 1-based reference ids to the head of the ranking.
func refsFor(ranked []*model.WebDoc, topk int) map[int]string {
	refs := make(map[int]string)
	for i, d := range ranked {
		if i >= topk {
			break
		}
		refs[i+1] = d.URL
	}
	return refs
}

func (p *Pipeline) verbose(format string, args ...any) {
	if p.cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
