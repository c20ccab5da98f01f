package evidence

import (
	"strings"

	"github.com/vbascerano/dossier/internal/model"
)

var (
	intlMediaDomains = []string{"cnn.com", "bbc.co.uk", "bbc.com", "reuters.com", "apnews.com", "aljazeera.com", "ft.com", "bloomberg.com"}
	itMediaDomains   = []string{"repubblica.it", "corriere.it", "ansa.it", "ilpost.it", "tg24.sky.it", "ilsole24ore.com"}
	thinkTankDomains = []string{"csis.org", "brookings.edu", "rand.org", "carnegieendowment.org"}
)

// ClassifySourceType maps a domain onto the closed outlet classification.
func ClassifySourceType(domain string) model.SourceType {
	d := strings.ToLower(domain)
	switch {
	case strings.HasSuffix(d, "un.org"), strings.Contains(d, "reliefweb.int"),
		strings.HasSuffix(d, "oecd.org"), strings.HasSuffix(d, "europa.eu"):
		return model.SourceUN
	case strings.HasSuffix(d, "who.int"), strings.Contains(d, "savethechildren"),
		strings.HasSuffix(d, "hrw.org"), strings.HasSuffix(d, "icrc.org"):
		return model.SourceNGO
	case strings.HasSuffix(d, ".gov"), strings.HasSuffix(d, "whitehouse.gov"), strings.HasSuffix(d, "ustr.gov"):
		return model.SourceGov
	}
	for _, m := range intlMediaDomains {
		if strings.HasSuffix(d, m) {
			return model.SourceMediaIntl
		}
	}
	for _, m := range itMediaDomains {
		if strings.HasSuffix(d, m) {
			return model.SourceMediaIT
		}
	}
	for _, m := range thinkTankDomains {
		if strings.HasSuffix(d, m) {
			return model.SourceThinkTank
		}
	}
	return model.SourceOther
}

// ReliabilityGuess assigns the default reliability grade per outlet type.
func ReliabilityGuess(t model.SourceType) model.ReliabilityGrade {
	switch t {
	case model.SourceUN, model.SourceGov:
		return model.GradeA
	case model.SourceNGO, model.SourceMediaIntl, model.SourceThinkTank:
		return model.GradeB
	case model.SourceMediaIT:
		return model.GradeC
	default:
		return model.GradeD
	}
}
