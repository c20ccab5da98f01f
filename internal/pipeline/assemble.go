package pipeline

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vbascerano/dossier/internal/evidence"
	"github.com/vbascerano/dossier/internal/llm"
	"github.com/vbascerano/dossier/internal/model"
	tl "github.com/vbascerano/dossier/internal/timeline"
)

type assembleInput struct {
	query        string
	window       model.TimeWindow
	plan         *llm.Plan
	ranked       []*model.WebDoc
	refs         map[int]string
	claims       []model.RawClaim
	checks       []model.Verdict
	events       []tl.Event
	entities     []llm.Entity
	relations    []llm.RelationHint
	crossSummary string
}

// assemble builds the report graph from the pipeline outputs and runs
// the integrity validation. A validation failure aborts the run; nothing
// partially consistent is ever returned.
func (p *Pipeline) assemble(in assembleInput) (*model.Report, error) {
	seq := model.NewSequencer()
	now := p.now().UTC()

	// Sources and documents, one pair per ranked survivor.
	var sources []model.Source
	var documents []model.Document
	srcByURL := make(map[string]string)
	docByURL := make(map[string]string)
	for _, d := range in.ranked {
		domain := d.Domain
		if domain == "" {
			domain = evidence.DomainOf(d.URL)
		}
		stype := evidence.ClassifySourceType(domain)

		srcID := seq.Next(model.PrefixSource)
		docID := seq.Next(model.PrefixDocument)
		srcByURL[d.URL] = srcID
		docByURL[d.URL] = docID

		title := d.Title
		if title == "" {
			title = domain
		}
		accessed := now
		sources = append(sources, model.Source{
			ID:          srcID,
			Type:        stype,
			Domain:      domain,
			Title:       title,
			PublishedAt: d.Published,
			AccessedAt:  &accessed,
			URL:         d.URL,
			Reliability: evidence.ReliabilityGuess(stype),
		})
		doc := model.Document{
			ID:           docID,
			SourceID:     srcID,
			URL:          d.URL,
			Title:        title,
			PublishedAt:  d.BestDate(),
			Text:         d.Text,
			Hash:         d.Hash,
			Lang:         d.Lang,
			DetectedDate: d.DetectedDate,
			Mime:         d.Mime,
			IsLive:       d.IsLive,
		}
		doc.EnsureHash()
		documents = append(documents, doc)
	}

	citationsFor := func(ids []int) []model.Citation {
		var cites []model.Citation
		seen := make(map[string]bool)
		for _, id := range ids {
			u, ok := in.refs[id]
			if !ok {
				continue
			}
			srcID, ok := srcByURL[u]
			if !ok || seen[srcID] {
				continue
			}
			seen[srcID] = true
			cites = append(cites, model.Citation{SourceID: srcID, DocumentID: docByURL[u]})
		}
		return cites
	}

	// Findings from the corroborated claims; the titles of the top
	// documents stand in when no claim survived or no LLM ran.
	var findings []model.Finding
	for i, c := range in.claims {
		cites := citationsFor(c.Sources)
		if len(cites) == 0 {
			continue
		}
		chk := in.checks[i]
		findings = append(findings, model.Finding{
			ID:          seq.Next(model.PrefixFinding),
			Text:        c.Text,
			Support:     model.SupportLevelOf(chk.Support),
			Confidence:  chk.Confidence,
			Citations:   cites,
			Limitations: chk.Notes,
		})
	}
	if len(findings) == 0 {
		findings = fallbackFindings(seq, documents, 5)
	}

	var eventsOut []model.Event
	for _, e := range in.events {
		eventsOut = append(eventsOut, model.Event{
			ID:        seq.Next(model.PrefixEvent),
			DateISO:   e.Date,
			Title:     clipText(e.Text, 120),
			Summary:   e.Text,
			Citations: citationsFor(e.Sources),
		})
	}

	actors, relationships := assembleActors(seq, in.entities, in.relations)

	// LOC entities become the geo focus, INDICATOR entities named
	// indicators without series; neither needs citations.
	var geoFocus []string
	var indicators []model.Indicator
	for _, e := range in.entities {
		switch e.Type {
		case "LOC":
			geoFocus = append(geoFocus, e.Name)
		case "INDICATOR":
			indicators = append(indicators, model.Indicator{
				ID:   seq.Next(model.PrefixIndicator),
				Name: e.Name,
			})
		}
	}

	narrative := &model.Narrative{
		Sentiment: "neutral",
		SourceMix: sourceMix(sources),
	}
	if in.crossSummary != "" {
		narrative.Topics = []string{in.crossSummary}
	}

	collectors := []string{"searxng:api"}
	if p.reliefweb != nil {
		collectors = append(collectors, "reliefweb:api")
	}
	methodology := &model.Methodology{
		Collectors:     collectors,
		Queries:        in.plan.Queries,
		EnginesProfile: p.cfg.Search.Engines,
		Dedup: fmt.Sprintf("simhash %d-bit, hamming<=%d, greedy clusters",
			p.cfg.Dedup.SimhashBits, p.cfg.Dedup.NearDupHamming),
		Ranking: fmt.Sprintf("freshness %.2f / authority %.2f / completeness %.2f / coherence %.2f, half-life %.0fd",
			p.cfg.Rank.Weights.Freshness, p.cfg.Rank.Weights.Authority,
			p.cfg.Rank.Weights.Completeness, p.cfg.Rank.Weights.Coherence,
			p.cfg.Rank.HalfLifeDays),
		Ethics:      "public sources only; robots.txt honored; per-domain rate limiting",
		Limitations: "automated collection; HTML extraction only; LLM stages optional and fail-open",
	}

	var llmInfo *model.LLMInfo
	if p.llmModel != "" {
		llmInfo = &model.LLMInfo{Name: p.llmModel}
	}

	report := &model.Report{
		Metadata: model.ReportMetadata{
			ReportID:    model.NewReportID(now, 1),
			Title:       "Dossier — " + in.query,
			Query:       in.query,
			GeneratedAt: now,
			Analyst:     p.cfg.Output.Analyst,
			ToolVersion: model.ToolVersion,
			LLM:         llmInfo,
		},
		Scope: model.Scope{
			TimeWindow: in.window,
			GeoFocus:   geoFocus,
			Languages:  []string{p.cfg.Search.Language},
		},
		Sources:       sources,
		Documents:     documents,
		Findings:      findings,
		Timeline:      eventsOut,
		Actors:        actors,
		Relationships: relationships,
		Indicators:    indicators,
		Narrative:     narrative,
		Methodology:   methodology,
	}
	report.Bibliography = report.BibliographyFromSources()

	if err := report.Validate(); err != nil {
		return nil, fmt.Errorf("report validation: %w", err)
	}
	return report, nil
}

// fallbackFindings turns the first few document titles into low-signal
// findings so a report without LLM claims still states what was found.
func fallbackFindings(seq *model.Sequencer, documents []model.Document, max int) []model.Finding {
	var out []model.Finding
	for _, d := range documents {
		if len(out) >= max {
			break
		}
		text := strings.TrimSpace(d.Title)
		if text == "" {
			text = clipText(d.Text, 140)
		}
		if text == "" {
			continue
		}
		out = append(out, model.Finding{
			ID:         seq.Next(model.PrefixFinding),
			Text:       text,
			Support:    model.SupportUnknown,
			Confidence: 0.5,
			Citations:  []model.Citation{{SourceID: d.SourceID, DocumentID: d.ID}},
		})
	}
	return out
}

// assembleActors converts entities to actors and resolves relation hints
// to actor ids. Hints naming an unknown actor are dropped here, never
// patched up during validation.
func assembleActors(seq *model.Sequencer, ents []llm.Entity, hints []llm.RelationHint) ([]model.Actor, []model.Relationship) {
	var actors []model.Actor
	idByName := make(map[string]string)
	for _, e := range ents {
		var kind model.ActorKind
		switch e.Type {
		case "PERSON":
			kind = model.ActorPerson
		case "ORG":
			kind = model.ActorOrg
		default:
			continue
		}
		key := strings.ToLower(e.Name)
		if _, ok := idByName[key]; ok {
			continue
		}
		id := seq.Next(model.PrefixActor)
		idByName[key] = id
		actors = append(actors, model.Actor{ID: id, Name: e.Name, Kind: kind})
	}

	var relationships []model.Relationship
	for _, h := range hints {
		from, okFrom := idByName[strings.ToLower(h.From)]
		to, okTo := idByName[strings.ToLower(h.To)]
		if !okFrom || !okTo {
			continue
		}
		relationships = append(relationships, model.Relationship{
			ID:         seq.Next(model.PrefixRelationship),
			From:       from,
			To:         to,
			Type:       relationType(h.Type),
			Strength:   h.Confidence,
			Confidence: h.Confidence,
		})
	}
	return actors, relationships
}

func relationType(s string) model.RelationshipType {
	switch model.RelationshipType(strings.ToLower(s)) {
	case model.RelSupports, model.RelOpposes, model.RelAffiliates,
		model.RelNegotiates, model.RelSanctions, model.RelInvestigates,
		model.RelTradesWith:
		return model.RelationshipType(strings.ToLower(s))
	default:
		return model.RelOther
	}
}

func sourceMix(sources []model.Source) map[string]int {
	mix := make(map[string]int)
	for _, s := range sources {
		mix[string(s.Type)]++
	}
	return mix
}

// clipText truncates to at most n bytes at a rune boundary, preferring a
// word break, and marks the cut with an ellipsis.
func clipText(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	clipped := s[:n]
	if i := strings.LastIndex(clipped, " "); i > n/2 {
		clipped = clipped[:i]
	}
	return clipped + "…"
}
