package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// PlanCriteria tune collection for one run.
type PlanCriteria struct {
	FreshnessDays     int  `json:"freshness_days"`
	NeedInstitutional bool `json:"need_institutional"`
	NeedDiversity     bool `json:"need_diversity"`
}

// Plan is the research plan driving the collection stage.
type Plan struct {
	Subgoals []string     `json:"subgoals"`
	Queries  []string     `json:"queries"`
	Criteria PlanCriteria `json:"criteria"`
}

// FallbackPlan is the static plan used when no LLM is configured or the
// planner output cannot be parsed. It widens the raw query just enough
// to get source diversity.
func FallbackPlan(query string) *Plan {
	return &Plan{
		Subgoals: []string{
			"Map the main actors",
			"Collect a timeline of key events",
			"Identify quantitative indicators",
		},
		Queries: []string{
			query,
			fmt.Sprintf("%q site:reuters.com", query),
			query + " filetype:pdf",
		},
		Criteria: PlanCriteria{FreshnessDays: 30, NeedInstitutional: true, NeedDiversity: true},
	}
}

// PlanQuery asks the model for a research plan; on any failure the
// fallback plan is returned so collection always has queries to run.
func PlanQuery(ctx context.Context, c Chatter, query string) *Plan {
	out, err := c.Chat(ctx, plannerPrompt, query, 900)
	if err != nil {
		return FallbackPlan(query)
	}
	var plan Plan
	if err := json.Unmarshal([]byte(stripFences(out)), &plan); err != nil || len(plan.Queries) == 0 {
		return FallbackPlan(query)
	}
	if plan.Criteria.FreshnessDays <= 0 {
		plan.Criteria.FreshnessDays = 30
	}
	return &plan
}
