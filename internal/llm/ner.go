package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/vbascerano/dossier/internal/model"
)

// Entity is one extracted named entity with its rough frequency.
type Entity struct {
	Name string `json:"entity"`
	Type string `json:"type"`
	Freq int    `json:"freq"`
}

// Entities runs entity extraction over the top-ranked documents under
// the configured character budget. Returns nil on any failure; actors
// are an enrichment, never a hard dependency.
func Entities(ctx context.Context, c Chatter, docs []*model.WebDoc, cfg model.LLMConfig) []Entity {
	input := packText(docs, cfg.TopK, cfg.CharBudget)
	if input == "" {
		return nil
	}

	out, err := c.Chat(ctx, nerPrompt, input, 900)
	if err != nil {
		return nil
	}

	var raw []Entity
	if err := json.Unmarshal([]byte(stripFences(out)), &raw); err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var clean []Entity
	for _, e := range raw {
		name := strings.TrimSpace(e.Name)
		typ := strings.ToUpper(strings.TrimSpace(e.Type))
		if name == "" || typ == "" {
			continue
		}
		key := strings.ToLower(name) + "\x00" + typ
		if seen[key] {
			continue
		}
		seen[key] = true
		freq := e.Freq
		if freq < 1 {
			freq = 1
		}
		clean = append(clean, Entity{Name: name, Type: typ, Freq: freq})
	}
	return clean
}

// RelationHint is one candidate actor-to-actor edge proposed by the
// model; assembly resolves names to actor ids and drops the unresolved.
type RelationHint struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// Relations extracts relationships among the named actors from the
// top-ranked documents.
func Relations(ctx context.Context, c Chatter, docs []*model.WebDoc, actors []string, cfg model.LLMConfig) []RelationHint {
	if len(actors) < 2 {
		return nil
	}
	payload := struct {
		Actors   []string `json:"actors"`
		Evidence string   `json:"evidence"`
	}{Actors: actors, Evidence: packText(docs, cfg.TopK, cfg.CharBudget)}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	out, err := c.Chat(ctx, relationsPrompt, string(raw), 900)
	if err != nil {
		return nil
	}

	var hints []RelationHint
	if err := json.Unmarshal([]byte(stripFences(out)), &hints); err != nil {
		return nil
	}
	var clean []RelationHint
	for _, h := range hints {
		if h.From == "" || h.To == "" || h.From == h.To {
			continue
		}
		if h.Confidence < 0 || h.Confidence > 1 {
			h.Confidence = 0.5
		}
		clean = append(clean, h)
	}
	return clean
}

// packText concatenates title+text of the top docs under a character
// budget, 2000 chars per document.
func packText(docs []*model.WebDoc, topk, budget int) string {
	var sb strings.Builder
	for i, d := range docs {
		if i >= topk {
			break
		}
		text := d.Text
		if len(text) > 2000 {
			text = text[:2000]
		}
		chunk := d.Title + "\n" + text + "\n\n"
		if sb.Len()+len(chunk) > budget {
			break
		}
		sb.WriteString(chunk)
	}
	return sb.String()
}
