package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vbascerano/dossier/internal/model"
)

// stubChat replays a canned response and records the last exchange.
type stubChat struct {
	reply    string
	err      error
	lastUser string
}

func (s *stubChat) Chat(_ context.Context, _, user string, _ int) (string, error) {
	s.lastUser = user
	return s.reply, s.err
}

func testDocs() []*model.WebDoc {
	return []*model.WebDoc{
		{URL: "https://a.example/1", Title: "First", Text: strings.Repeat("a", 5000)},
		{URL: "https://b.example/2", Title: "Second", Text: "short body"},
	}
}

func TestStripFences(t *testing.T) {
	fenced := "```json\n{\"a\":1}\n```"
	if got := stripFences(fenced); got != `{"a":1}` {
		t.Errorf("got %q", got)
	}
	bare := `{"a":1}`
	if got := stripFences(bare); got != bare {
		t.Errorf("bare JSON mangled: %q", got)
	}
}

func TestPlanQuery(t *testing.T) {
	stub := &stubChat{reply: `{"subgoals":["a"],"queries":["q1","q2"],"criteria":{"freshness_days":14,"need_institutional":true,"need_diversity":false}}`}
	plan := PlanQuery(context.Background(), stub, "dazi acciaio")
	if len(plan.Queries) != 2 || plan.Criteria.FreshnessDays != 14 {
		t.Errorf("plan = %+v", plan)
	}
}

func TestPlanQuery_FallbackOnGarbage(t *testing.T) {
	stub := &stubChat{reply: "sorry, I cannot answer in JSON"}
	plan := PlanQuery(context.Background(), stub, "dazi acciaio")
	if len(plan.Queries) == 0 {
		t.Fatal("fallback plan must carry queries")
	}
	if plan.Queries[0] != "dazi acciaio" {
		t.Errorf("fallback must include the raw query, got %v", plan.Queries)
	}
	if plan.Criteria.FreshnessDays != 30 {
		t.Errorf("fallback freshness = %d", plan.Criteria.FreshnessDays)
	}
}

func TestEntities_DedupAndNormalize(t *testing.T) {
	stub := &stubChat{reply: `[
		{"entity":"Mario Rossi","type":"person","freq":3},
		{"entity":"mario rossi","type":"PERSON","freq":1},
		{"entity":"","type":"ORG"},
		{"entity":"WTO","type":"ORG","freq":0}
	]`}
	cfg := model.DefaultConfig().LLM
	ents := Entities(context.Background(), stub, testDocs(), cfg)
	if len(ents) != 2 {
		t.Fatalf("got %d entities, want 2", len(ents))
	}
	if ents[0].Type != "PERSON" {
		t.Errorf("type not upper-cased: %q", ents[0].Type)
	}
	if ents[1].Freq != 1 {
		t.Errorf("zero freq not floored: %d", ents[1].Freq)
	}
}

func TestEntities_BudgetBoundsInput(t *testing.T) {
	cfg := model.DefaultConfig().LLM
	cfg.CharBudget = 2010
	stub := &stubChat{reply: "[]"}
	Entities(context.Background(), stub, testDocs(), cfg)
	if strings.Contains(stub.lastUser, "Second") {
		t.Error("second document should not fit inside the budget")
	}
	if len(stub.lastUser) > cfg.CharBudget {
		t.Errorf("input length %d exceeds budget %d", len(stub.lastUser), cfg.CharBudget)
	}
}

func TestSummarize(t *testing.T) {
	stub := &stubChat{reply: `{"per_source_summary":{"1":"says X"},"cross_summary":"overall","claims":[{"text":"X happened","sources":[1,2]}]}`}
	summary, refs := Summarize(context.Background(), stub, testDocs(), 8)
	if refs[1] != "https://a.example/1" || refs[2] != "https://b.example/2" {
		t.Errorf("refs = %v", refs)
	}
	if len(summary.Claims) != 1 || summary.Claims[0].Sources[1] != 2 {
		t.Errorf("claims = %+v", summary.Claims)
	}
}

func TestSummarize_FailureKeepsRefs(t *testing.T) {
	stub := &stubChat{err: errors.New("backend down")}
	summary, refs := Summarize(context.Background(), stub, testDocs(), 8)
	if len(summary.Claims) != 0 {
		t.Error("failed summarize must yield no claims")
	}
	if len(refs) != 2 {
		t.Errorf("refs must be valid regardless, got %v", refs)
	}
}

func TestFactCheck_FallbackVerdicts(t *testing.T) {
	claims := []model.RawClaim{{Text: "A"}, {Text: "B"}}
	stub := &stubChat{reply: "not json"}
	checks := FactCheck(context.Background(), stub, claims, nil)
	if len(checks) != 2 {
		t.Fatalf("got %d verdicts, want 2", len(checks))
	}
	for i, chk := range checks {
		if chk.Support != "unknown" || chk.Confidence != 0.4 {
			t.Errorf("verdict %d = %+v", i, chk)
		}
		if chk.Claim != claims[i].Text {
			t.Errorf("verdict %d not paired with its claim", i)
		}
	}
}

func TestFactCheck_ParsesVerdicts(t *testing.T) {
	claims := []model.RawClaim{{Text: "A", Sources: []int{1}}}
	stub := &stubChat{reply: `[{"claim":"A","support":"supported","confidence":0.8,"notes":"ok"}]`}
	checks := FactCheck(context.Background(), stub, claims, map[int]string{1: "https://a.example"})
	if len(checks) != 1 || checks[0].Support != "supported" {
		t.Errorf("checks = %+v", checks)
	}
}

func TestRelations(t *testing.T) {
	stub := &stubChat{reply: `[
		{"from":"Italy","to":"EU Commission","type":"negotiates","confidence":0.7},
		{"from":"Italy","to":"Italy","type":"other","confidence":0.9},
		{"from":"","to":"X","type":"other"}
	]`}
	cfg := model.DefaultConfig().LLM
	hints := Relations(context.Background(), stub, testDocs(), []string{"Italy", "EU Commission"}, cfg)
	if len(hints) != 1 {
		t.Fatalf("got %d hints, want 1 (self-loops and blanks dropped)", len(hints))
	}
	if hints[0].Type != "negotiates" {
		t.Errorf("type = %q", hints[0].Type)
	}
}
