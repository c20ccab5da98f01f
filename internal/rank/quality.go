package rank

import (
	"net/url"
	"strings"
)

// IsLowQuality reports whether a URL belongs to a domain or matches a
// keyword from the configured low-quality lists (opinion pieces, blogs,
// aggregator index pages).
func (s *Scorer) IsLowQuality(rawURL string) bool {
	u := strings.ToLower(rawURL)
	host := hostOf(u)
	for _, d := range s.cfg.LowQualityDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	for _, k := range s.cfg.LowQualityKeywords {
		if strings.Contains(u, k) {
			return true
		}
	}
	return false
}

// qualityBonus combines the additive bonuses and penalties applied before
// clamping: a penalty for low-quality URLs, a bonus for institutional
// detail pages and high-authority domains, and a penalty for rolling/live
// coverage. They are additive, not mutually exclusive.
func (s *Scorer) qualityBonus(rawURL string, isLive bool) float64 {
	if rawURL == "" {
		return 0
	}
	u := strings.ToLower(rawURL)

	pen := 0.0
	if isLive {
		pen = s.cfg.LivePenalty
	}
	if s.IsLowQuality(u) {
		return s.cfg.LowQualityPenalty + pen
	}
	for _, hint := range s.cfg.DetailHints {
		if strings.Contains(u, hint) {
			return s.cfg.DetailBonus + pen
		}
	}
	return pen
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	return strings.TrimPrefix(host, "www.")
}
