package llm

import (
	"context"
	"encoding/json"

	"github.com/vbascerano/dossier/internal/model"
)

// Summary is the parsed output of the cited-summarization stage.
type Summary struct {
	PerSource    map[string]string `json:"per_source_summary"`
	CrossSummary string            `json:"cross_summary"`
	Claims       []model.RawClaim  `json:"claims"`
}

type sourcePack struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
}

// Summarize sends the top-ranked documents to the model with numeric
// reference ids and returns the summary plus the id-to-URL map that all
// later citation handling keys on. On failure the summary is empty but
// the refs map is still valid.
func Summarize(ctx context.Context, c Chatter, docs []*model.WebDoc, topk int) (*Summary, map[int]string) {
	refs := make(map[int]string)
	var pack []sourcePack
	for i, d := range docs {
		if i >= topk {
			break
		}
		id := i + 1
		refs[id] = d.URL
		excerpt := d.Text
		if len(excerpt) > 3000 {
			excerpt = excerpt[:3000]
		}
		pack = append(pack, sourcePack{ID: id, Title: d.Title, Excerpt: excerpt})
	}

	empty := &Summary{PerSource: map[string]string{}}
	if len(pack) == 0 {
		return empty, refs
	}

	payload, err := json.Marshal(struct {
		Sources []sourcePack `json:"sources"`
	}{pack})
	if err != nil {
		return empty, refs
	}

	out, err := c.Chat(ctx, summarizePrompt, string(payload), 1800)
	if err != nil {
		return empty, refs
	}

	var summary Summary
	if err := json.Unmarshal([]byte(stripFences(out)), &summary); err != nil {
		return empty, refs
	}
	if summary.PerSource == nil {
		summary.PerSource = map[string]string{}
	}
	return &summary, refs
}
