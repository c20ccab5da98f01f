// Package render writes a finished report to disk as Markdown and JSON.
// Rendering failures never invalidate the report itself.
package render

import (
	"fmt"
	"strings"

	"github.com/vbascerano/dossier/internal/model"
)

// Markdown renders the report to a human-readable Markdown dossier.
func Markdown(r *model.Report) string {
	var md []string
	add := func(lines ...string) { md = append(md, lines...) }

	add("# " + r.Metadata.Title)
	add(fmt.Sprintf("**Generated:** %s • **Query:** %s",
		r.Metadata.GeneratedAt.Format("2006-01-02 15:04 UTC"), orDash(r.Metadata.Query)))
	add(fmt.Sprintf("**Window:** %s → %s", orDash(r.Scope.TimeWindow.From), orDash(r.Scope.TimeWindow.To)))
	add("")

	add("## Executive Summary")
	switch {
	case r.Narrative != nil && len(r.Narrative.Topics) > 0:
		add(r.Narrative.Topics[0])
	case len(r.Findings) > 0:
		for _, f := range r.Findings[:min(3, len(r.Findings))] {
			add(fmt.Sprintf("- %s *(conf. %.2f, %s)*", f.Text, f.Confidence, f.Support))
		}
	default:
		add("- (no findings)")
	}
	add("", "---", "")

	if len(r.Findings) > 0 {
		add("## Key Findings")
		add("| # | Finding | Support | Confidence | Sources |")
		add("|---|---------|---------|------------|---------|")
		for i, f := range r.Findings {
			var ids []string
			for _, c := range f.Citations {
				ids = append(ids, c.SourceID)
			}
			add(fmt.Sprintf("| %d | %s | %s | %.2f | %s |",
				i+1, escapePipes(f.Text), f.Support, f.Confidence, strings.Join(ids, ", ")))
		}
		add("")
	}

	if len(r.Timeline) > 0 {
		add("## Timeline")
		for _, e := range r.Timeline {
			line := fmt.Sprintf("- **%s** — %s", e.DateISO, e.Title)
			if url := firstCitedURL(r, e.Citations); url != "" {
				line += fmt.Sprintf(" ([source](%s))", url)
			}
			add(line)
		}
		add("")
	}

	if len(r.Actors) > 0 {
		add("## Actors")
		var names []string
		for _, a := range r.Actors {
			names = append(names, fmt.Sprintf("%s (%s)", a.Name, a.Kind))
		}
		add(strings.Join(names, ", "))
		if len(r.Relationships) > 0 {
			add("", "**Relationships:**")
			byID := actorNames(r.Actors)
			for _, rel := range r.Relationships {
				add(fmt.Sprintf("- %s — %s → %s *(conf. %.2f)*",
					byID[rel.From], rel.Type, byID[rel.To], rel.Confidence))
			}
		}
		add("")
	}

	if len(r.Sources) > 0 {
		add("## Sources")
		add("| ID | Type | Domain | Title | Published | Reliability |")
		add("|----|------|--------|-------|-----------|-------------|")
		for _, s := range r.Sources {
			add(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |",
				s.ID, s.Type, s.Domain, escapePipes(s.Title), orDash(s.PublishedAt), s.Reliability))
		}
		add("")
	}

	if m := r.Methodology; m != nil {
		add("## Methodology")
		if len(m.Queries) > 0 {
			add("- Queries: " + strings.Join(m.Queries, "; "))
		}
		if m.EnginesProfile != "" {
			add("- Engines: " + m.EnginesProfile)
		}
		if m.Dedup != "" {
			add("- Dedup: " + m.Dedup)
		}
		if m.Ranking != "" {
			add("- Ranking: " + m.Ranking)
		}
		if m.Ethics != "" {
			add("- Ethics: " + m.Ethics)
		}
		if m.Limitations != "" {
			add("- Limitations: " + m.Limitations)
		}
		add("")
	}

	return strings.Join(md, "\n")
}

func firstCitedURL(r *model.Report, citations []model.Citation) string {
	for _, c := range citations {
		if c.DocumentID == "" {
			continue
		}
		for _, d := range r.Documents {
			if d.ID == c.DocumentID {
				return d.URL
			}
		}
	}
	return ""
}

func actorNames(actors []model.Actor) map[string]string {
	byID := make(map[string]string, len(actors))
	for _, a := range actors {
		byID[a.ID] = a.Name
	}
	return byID
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
