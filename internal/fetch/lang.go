package fetch

import "strings"

var (
	itStopwords = map[string]bool{
		"il": true, "lo": true, "la": true, "gli": true, "delle": true,
		"che": true, "per": true, "con": true, "della": true, "sono": true,
		"una": true, "nel": true, "anche": true, "più": true, "dei": true,
	}
	enStopwords = map[string]bool{
		"the": true, "and": true, "for": true, "with": true, "that": true,
		"from": true, "this": true, "have": true, "are": true, "was": true,
		"been": true, "will": true, "its": true, "has": true, "not": true,
	}
)

// SniffLang guesses it/en from stopword frequency over the first part of
// the text. Anything inconclusive is "unknown"; the pipeline treats the
// guess as advisory only.
func SniffLang(text string) string {
	if text == "" {
		return "unknown"
	}
	sample := text
	if len(sample) > 1000 {
		sample = sample[:1000]
	}

	var it, en int
	for _, w := range strings.Fields(strings.ToLower(sample)) {
		w = strings.Trim(w, ".,;:!?\"'()[]")
		if itStopwords[w] {
			it++
		}
		if enStopwords[w] {
			en++
		}
	}

	switch {
	case it > en && it >= 2:
		return "it"
	case en > it && en >= 2:
		return "en"
	default:
		return "unknown"
	}
}
