package model

// RawClaim is a claim as produced by the summarization stage, before
// corroboration filtering and report assembly. Sources are the numeric
// reference ids of the cited documents.
type RawClaim struct {
	Text       string  `json:"text"`
	Sources    []int   `json:"sources"`
	CrossAgree float64 `json:"cross_agree,omitempty"`
}

// Verdict is one fact-check result paired with a RawClaim. Support uses
// the fact-checker's lower-case vocabulary (supported, partial, contested,
// unknown); assembly maps it onto SupportLevel.
type Verdict struct {
	Claim      string  `json:"claim"`
	Support    string  `json:"support"`
	Confidence float64 `json:"confidence"`
	Notes      string  `json:"notes,omitempty"`
}

// SupportLevelOf maps a fact-check support string onto the closed
// SupportLevel set, defaulting to Unknown.
func SupportLevelOf(s string) SupportLevel {
	switch s {
	case "supported":
		return SupportSupported
	case "partial":
		return SupportPartial
	case "contested":
		return SupportContested
	default:
		return SupportUnknown
	}
}
