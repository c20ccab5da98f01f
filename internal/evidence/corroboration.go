// Package evidence gates claims on independent corroboration and
// classifies sources by outlet type.
package evidence

import (
	"net/url"
	"strings"

	"github.com/vbascerano/dossier/internal/model"
)

// DomainOf extracts the lower-cased host of a URL, without the www prefix.
func DomainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// DistinctDomains counts the distinct domains among the cited reference
// ids — the independence proxy behind corroboration.
func DistinctDomains(ids []int, refs map[int]string) int {
	domains := make(map[string]bool)
	for _, id := range ids {
		u, ok := refs[id]
		if !ok {
			continue
		}
		if d := DomainOf(u); d != "" {
			domains[d] = true
		}
	}
	return len(domains)
}

// FilterClaims keeps only the (claim, verdict) pairs where the verdict is
// supported or partial with sufficient confidence AND the claim's cited
// references span enough distinct domains. Kept claims gain a derived
// coherence signal of min(1, domains/4) for later re-ranking passes.
// Claims and verdicts are paired positionally; surplus entries on either
// side are ignored.
func FilterClaims(claims []model.RawClaim, checks []model.Verdict, refs map[int]string, cfg model.EvidenceConfig) ([]model.RawClaim, []model.Verdict) {
	n := len(claims)
	if len(checks) < n {
		n = len(checks)
	}

	var keptClaims []model.RawClaim
	var keptChecks []model.Verdict
	for i := 0; i < n; i++ {
		c, chk := claims[i], checks[i]

		supportOK := (chk.Support == "supported" || chk.Support == "partial") &&
			chk.Confidence >= cfg.MinConfidence
		domains := DistinctDomains(c.Sources, refs)
		if !supportOK || domains < cfg.MinSupportDomains {
			continue
		}

		c.CrossAgree = float64(domains) / 4.0
		if c.CrossAgree > 1 {
			c.CrossAgree = 1
		}
		keptClaims = append(keptClaims, c)
		keptChecks = append(keptChecks, chk)
	}
	return keptClaims, keptChecks
}

// ApplyCoherence feeds the corroboration signal of the kept claims back
// onto the documents they cite, so a subsequent ranking pass can use it
// as the coherence term. The strongest signal per document wins.
func ApplyCoherence(docs []*model.WebDoc, claims []model.RawClaim, refs map[int]string) {
	byURL := make(map[string]*model.WebDoc, len(docs))
	for _, d := range docs {
		byURL[d.URL] = d
	}
	for _, c := range claims {
		for _, id := range c.Sources {
			u, ok := refs[id]
			if !ok {
				continue
			}
			if d, ok := byURL[u]; ok && c.CrossAgree > d.CrossAgree {
				d.CrossAgree = c.CrossAgree
			}
		}
	}
}
