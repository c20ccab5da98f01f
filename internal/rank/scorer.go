// Package rank orders deduplicated documents by a bounded multi-factor
// relevance score: freshness, source authority, content completeness,
// cross-source coherence plus quality bonuses.
package rank

import (
	"math"
	"sort"
	"time"

	"github.com/vbascerano/dossier/internal/model"
	"github.com/vbascerano/dossier/internal/util"
)

// neutralFreshness is used when no date is resolvable for a document.
const neutralFreshness = 0.5

// defaultCoherence is used until a corroboration signal has been computed.
const defaultCoherence = 0.50

// Scorer computes per-document relevance scores from an injected
// configuration. The weights and bonus magnitudes are hand-tuned defaults,
// not fixed truths; tests and operators override them via RankConfig.
type Scorer struct {
	cfg model.RankConfig
}

// NewScorer creates a Scorer with the given configuration.
func NewScorer(cfg model.RankConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes the relevance of one document at the given instant,
// clamped to [0,1] and rounded to 4 decimal places.
func (s *Scorer) Score(d *model.WebDoc, now time.Time) float64 {
	authority, ok := s.cfg.DomainScores[d.Domain]
	if !ok {
		authority = s.cfg.DefaultAuthority
	}

	completeness := math.Min(float64(len(d.Text))/float64(s.cfg.CompletenessChars), 1.0)

	coherence := defaultCoherence
	if d.CrossAgree > 0 {
		coherence = d.CrossAgree
	}

	w := s.cfg.Weights
	base := w.Freshness*s.freshness(now, d.BestDate()) +
		w.Authority*authority +
		w.Completeness*completeness +
		w.Coherence*coherence

	score := base + s.qualityBonus(d.URL, d.IsLive)
	score = math.Max(0, math.Min(1, score))
	return math.Round(score*10000) / 10000
}

// freshness decays by half every HalfLifeDays from the document's
// best-known date. Unresolvable dates get a neutral 0.5, not zero.
func (s *Scorer) freshness(now time.Time, dateStr string) float64 {
	if dateStr == "" {
		return neutralFreshness
	}
	ts := util.ToEpochSeconds(dateStr)
	if ts <= 0 {
		return neutralFreshness
	}
	days := math.Max(0, (float64(now.Unix())-ts)/86400.0)
	return math.Pow(0.5, days/s.cfg.HalfLifeDays)
}

// Rank scores every document and returns them ordered by score descending.
// The sort is stable so ties keep their relative input order.
func (s *Scorer) Rank(docs []*model.WebDoc, now time.Time) []*model.WebDoc {
	for _, d := range docs {
		d.Score = s.Score(d, now)
	}
	out := make([]*model.WebDoc, len(docs))
	copy(out, docs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
