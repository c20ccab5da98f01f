package render

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/vbascerano/dossier/internal/model"
)

func sampleReport() *model.Report {
	acc := time.Date(2025, 10, 22, 12, 0, 0, 0, time.UTC)
	return &model.Report{
		Metadata: model.ReportMetadata{
			ReportID:    "RPT-20251022-0001",
			Title:       "Dossier — dazi acciaio",
			Query:       "dazi acciaio",
			GeneratedAt: acc,
			ToolVersion: model.ToolVersion,
		},
		Scope: model.Scope{TimeWindow: model.TimeWindow{From: "2025-09-22", To: "2025-10-22"}},
		Sources: []model.Source{
			{ID: "SRC-0001", Type: model.SourceMediaIntl, Domain: "reuters.com", Title: "Deal | reached", URL: "https://reuters.com/a", Reliability: model.GradeB, AccessedAt: &acc},
		},
		Documents: []model.Document{
			{ID: "DOC-0001", SourceID: "SRC-0001", URL: "https://reuters.com/a", Title: "Deal reached"},
		},
		Findings: []model.Finding{
			{ID: "CLM-0001", Text: "An agreement was | reached.", Support: model.SupportSupported, Confidence: 0.85,
				Citations: []model.Citation{{SourceID: "SRC-0001", DocumentID: "DOC-0001"}}},
		},
		Timeline: []model.Event{
			{ID: "EVT-0001", DateISO: "2025-10-20", Title: "Deal announced",
				Citations: []model.Citation{{SourceID: "SRC-0001", DocumentID: "DOC-0001"}}},
		},
		Actors: []model.Actor{
			{ID: "ACT-0001", Name: "Ministry", Kind: model.ActorOrg},
			{ID: "ACT-0002", Name: "Commission", Kind: model.ActorOrg},
		},
		Relationships: []model.Relationship{
			{ID: "REL-0001", From: "ACT-0001", To: "ACT-0002", Type: model.RelNegotiates, Confidence: 0.7},
		},
		Methodology: &model.Methodology{Queries: []string{"dazi acciaio"}, Dedup: "simhash"},
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleReport())

	for _, want := range []string{
		"# Dossier — dazi acciaio",
		"## Key Findings",
		"An agreement was \\| reached.",
		"**2025-10-20** — Deal announced",
		"([source](https://reuters.com/a))",
		"Ministry — negotiates → Commission",
		"| SRC-0001 | Media-Intl | reuters.com | Deal \\| reached |",
		"- Queries: dazi acciaio",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestMarkdown_EmptySections(t *testing.T) {
	r := sampleReport()
	r.Findings = nil
	r.Timeline = nil
	r.Actors = nil
	r.Relationships = nil
	r.Narrative = nil
	md := Markdown(r)
	if strings.Contains(md, "## Key Findings") || strings.Contains(md, "## Timeline") {
		t.Error("empty sections rendered")
	}
	if !strings.Contains(md, "- (no findings)") {
		t.Error("empty executive summary placeholder missing")
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Dazi Acciaio UE 2025!": "dazi-acciaio-ue-2025",
		"  ---  ":               "report",
		"q":                     "q",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	jsonPath, mdPath, err := WriteFiles(sampleReport(), dir)
	if err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("written JSON does not parse: %v", err)
	}
	if _, ok := decoded["metadata"]; !ok {
		t.Error("metadata missing from JSON")
	}

	md, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(md), "# Dossier — dazi acciaio") {
		t.Error("markdown content wrong")
	}
	if !strings.HasSuffix(jsonPath, "dazi-acciaio.json") {
		t.Errorf("jsonPath = %s", jsonPath)
	}
}
