package model

import (
	"encoding/json"
	"time"
)

// SourceType is the closed classification set for originating outlets.
type SourceType string

const (
	SourceUN        SourceType = "UN"
	SourceNGO       SourceType = "ONG"
	SourceMediaIntl SourceType = "Media-Intl"
	SourceMediaIT   SourceType = "Media-IT"
	SourceGov       SourceType = "Gov"
	SourceThinkTank SourceType = "ThinkTank"
	SourceOther     SourceType = "Other"
)

// ReliabilityGrade is the ordinal A (best) to E source reliability grade.
type ReliabilityGrade string

const (
	GradeA ReliabilityGrade = "A"
	GradeB ReliabilityGrade = "B"
	GradeC ReliabilityGrade = "C"
	GradeD ReliabilityGrade = "D"
	GradeE ReliabilityGrade = "E"
)

// SupportLevel classifies how well a finding is backed by evidence.
type SupportLevel string

const (
	SupportSupported SupportLevel = "Supported"
	SupportPartial   SupportLevel = "Partial"
	SupportContested SupportLevel = "Contested"
	SupportUnknown   SupportLevel = "Unknown"
)

// ActorKind classifies named entities.
type ActorKind string

const (
	ActorPerson ActorKind = "PERSON"
	ActorOrg    ActorKind = "ORG"
	ActorState  ActorKind = "STATE"
	ActorOther  ActorKind = "OTHER"
)

// RelationshipType is the closed set of directed edge types between actors.
type RelationshipType string

const (
	RelSupports     RelationshipType = "supports"
	RelOpposes      RelationshipType = "opposes"
	RelAffiliates   RelationshipType = "affiliates"
	RelNegotiates   RelationshipType = "negotiates"
	RelSanctions    RelationshipType = "sanctions"
	RelInvestigates RelationshipType = "investigates"
	RelTradesWith   RelationshipType = "trades_with"
	RelOther        RelationshipType = "other"
)

// LLMInfo records which model produced the LLM-derived parts of a report.
type LLMInfo struct {
	Name   string         `json:"name,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// ReportMetadata describes one generated report.
type ReportMetadata struct {
	ReportID    string    `json:"report_id"`
	Title       string    `json:"title"`
	Query       string    `json:"query,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Analyst     string    `json:"analyst,omitempty"`
	ToolVersion string    `json:"tool_version"`
	LLM         *LLMInfo  `json:"llm,omitempty"`
}

// TimeWindow bounds the report scope. Dates are ISO YYYY-MM-DD strings so
// window checks reduce to lexical comparison.
type TimeWindow struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Scope is the report's time/geo/language coverage.
type Scope struct {
	TimeWindow TimeWindow `json:"time_window"`
	GeoFocus   []string   `json:"geo_focus,omitempty"`
	Languages  []string   `json:"languages,omitempty"`
}

// Source is one originating outlet for a document. Created once per
// distinct retrieved result, immutable thereafter.
type Source struct {
	ID          string           `json:"id"`
	Type        SourceType       `json:"type"`
	Domain      string           `json:"domain,omitempty"`
	Author      string           `json:"author,omitempty"`
	Title       string           `json:"title,omitempty"`
	PublishedAt string           `json:"published_at,omitempty"`
	AccessedAt  *time.Time       `json:"accessed_at,omitempty"`
	URL         string           `json:"url"`
	Reliability ReliabilityGrade `json:"reliability,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

// Document is the extracted content of one fetched page or file.
type Document struct {
	ID           string `json:"id"`
	SourceID     string `json:"source_id"`
	URL          string `json:"url"`
	Title        string `json:"title,omitempty"`
	PublishedAt  string `json:"published_at,omitempty"`
	Text         string `json:"text,omitempty"`
	Hash         string `json:"hash,omitempty"`
	Lang         string `json:"lang,omitempty"`
	DetectedDate string `json:"detected_date,omitempty"`
	Mime         string `json:"mime,omitempty"`
	IsLive       bool   `json:"is_live,omitempty"`
}

// EnsureHash fills the content hash from the text when absent.
func (d *Document) EnsureHash() {
	if d.Hash == "" && d.Text != "" {
		d.Hash = SHA256Text(d.Text)
	}
}

// Citation binds a finding/event/relationship/indicator point/geo feature
// to its originating source and, optionally, document.
type Citation struct {
	SourceID   string `json:"source_id"`
	DocumentID string `json:"document_id,omitempty"`
	Locator    string `json:"locator,omitempty"`
}

// Finding is a verifiable assertion with at least one citation.
type Finding struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	Support     SupportLevel `json:"support"`
	Confidence  float64      `json:"confidence"`
	Citations   []Citation   `json:"citations"`
	Limitations string       `json:"limitations,omitempty"`
}

// Event is one timeline entry.
type Event struct {
	ID        string     `json:"id"`
	DateISO   string     `json:"date_iso"`
	Title     string     `json:"title"`
	Summary   string     `json:"summary,omitempty"`
	Citations []Citation `json:"citations,omitempty"`
}

// Actor is a named entity referenced by relationships.
type Actor struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Kind    ActorKind `json:"kind"`
	Aliases []string  `json:"aliases,omitempty"`
	Notes   string    `json:"notes,omitempty"`
}

// Relationship is a directed typed edge between two actors.
type Relationship struct {
	ID         string           `json:"id"`
	From       string           `json:"from"`
	To         string           `json:"to"`
	Type       RelationshipType `json:"type"`
	Strength   float64          `json:"strength"`
	Confidence float64          `json:"confidence"`
	Citations  []Citation       `json:"citations,omitempty"`
}

// IndicatorPoint is one (date, value) sample of a metric.
type IndicatorPoint struct {
	DateISO   string     `json:"date_iso"`
	Value     float64    `json:"value"`
	Citations []Citation `json:"citations,omitempty"`
}

// Indicator is a named metric with a time series.
type Indicator struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Definition string           `json:"definition,omitempty"`
	Unit       string           `json:"unit,omitempty"`
	Series     []IndicatorPoint `json:"series,omitempty"`
}

// Narrative captures the report-level framing signals.
type Narrative struct {
	Topics    []string       `json:"topics,omitempty"`
	Sentiment string         `json:"sentiment,omitempty"`
	BiasNotes string         `json:"bias_notes,omitempty"`
	SourceMix map[string]int `json:"source_mix,omitempty"`
}

// GeoGeometry is a GeoJSON-like geometry.
type GeoGeometry struct {
	Type        string `json:"type"`
	Coordinates []any  `json:"coordinates"`
}

// GeoProperties annotates a geo feature with a label, date and citations.
type GeoProperties struct {
	Label     string     `json:"label,omitempty"`
	DateISO   string     `json:"date_iso,omitempty"`
	Citations []Citation `json:"citations,omitempty"`
}

// GeoFeature is one geolocated feature in the report.
type GeoFeature struct {
	ID         string         `json:"id"`
	Geometry   GeoGeometry    `json:"geometry"`
	Properties *GeoProperties `json:"properties,omitempty"`
}

// BibliographyItem is one short-form bibliography entry.
type BibliographyItem struct {
	SourceID     string `json:"source_id"`
	CitationText string `json:"citation_text,omitempty"`
	DOI          string `json:"doi,omitempty"`
}

// Methodology documents how the report was assembled.
type Methodology struct {
	Collectors     []string `json:"collectors,omitempty"`
	Queries        []string `json:"queries,omitempty"`
	EnginesProfile string   `json:"engines_profile,omitempty"`
	Dedup          string   `json:"dedup,omitempty"`
	Ranking        string   `json:"ranking,omitempty"`
	Ethics         string   `json:"ethics,omitempty"`
	Limitations    string   `json:"limitations,omitempty"`
}

// Report is the aggregate root. It is assembled once, validated, and
// treated as immutable after validation succeeds.
type Report struct {
	Metadata      ReportMetadata     `json:"metadata"`
	Scope         Scope              `json:"scope"`
	Sources       []Source           `json:"sources"`
	Documents     []Document         `json:"documents"`
	Findings      []Finding          `json:"findings"`
	Timeline      []Event            `json:"timeline,omitempty"`
	Actors        []Actor            `json:"actors,omitempty"`
	Relationships []Relationship     `json:"relationships,omitempty"`
	Indicators    []Indicator        `json:"indicators,omitempty"`
	Narrative     *Narrative         `json:"narrative,omitempty"`
	Geospatial    []GeoFeature       `json:"geospatial,omitempty"`
	Bibliography  []BibliographyItem `json:"bibliography,omitempty"`
	Methodology   *Methodology       `json:"methodology,omitempty"`
}

// ToJSON serializes the report with the §3 field names, omitting nulls.
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// BibliographyFromSources derives a short-form bibliography, one entry per
// source, preferring title over domain over URL.
func (r *Report) BibliographyFromSources() []BibliographyItem {
	items := make([]BibliographyItem, 0, len(r.Sources))
	for _, s := range r.Sources {
		text := s.Title
		if text == "" {
			text = s.Domain
		}
		if text == "" {
			text = s.URL
		}
		items = append(items, BibliographyItem{SourceID: s.ID, CitationText: text})
	}
	return items
}
