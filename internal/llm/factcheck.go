package llm

import (
	"context"
	"encoding/json"

	"github.com/vbascerano/dossier/internal/model"
)

// FactCheck asks the model to grade each claim against the evidence.
// When the call or the parse fails, every claim gets a conservative
// unknown/0.4 verdict so the corroboration filter drops it downstream.
func FactCheck(ctx context.Context, c Chatter, claims []model.RawClaim, refs map[int]string) []model.Verdict {
	if len(claims) == 0 {
		return nil
	}

	fallback := func() []model.Verdict {
		out := make([]model.Verdict, len(claims))
		for i, cl := range claims {
			out[i] = model.Verdict{
				Claim:      cl.Text,
				Support:    "unknown",
				Confidence: 0.4,
				Notes:      "insufficient evidence",
			}
		}
		return out
	}

	payload, err := json.Marshal(struct {
		Claims  []model.RawClaim `json:"claims"`
		Sources map[int]string   `json:"sources"`
	}{claims, refs})
	if err != nil {
		return fallback()
	}

	out, err := c.Chat(ctx, factcheckPrompt, string(payload), 1800)
	if err != nil {
		return fallback()
	}

	var checks []model.Verdict
	if err := json.Unmarshal([]byte(stripFences(out)), &checks); err != nil || len(checks) == 0 {
		return fallback()
	}
	return checks
}
