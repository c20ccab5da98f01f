package model

// WebDoc is the working representation of one fetched page as it moves
// through the pipeline stages. It merges the seed search result with the
// extracted content; later stages annotate the fingerprint, score and
// corroboration signal but never rewrite the fetched fields.
type WebDoc struct {
	URL          string `json:"url"`
	Title        string `json:"title,omitempty"`
	Snippet      string `json:"snippet,omitempty"`
	Text         string `json:"text,omitempty"`
	Domain       string `json:"domain,omitempty"`
	Lang         string `json:"lang,omitempty"`
	Hash         string `json:"hash,omitempty"`
	Published    string `json:"published,omitempty"`
	DetectedDate string `json:"detected_date,omitempty"`
	Engine       string `json:"engine,omitempty"`
	Source       string `json:"source,omitempty"`
	Mime         string `json:"mime,omitempty"`
	IsLive       bool   `json:"is_live,omitempty"`

	Simhash    uint64  `json:"simhash,omitempty"`
	Score      float64 `json:"score,omitempty"`
	CrossAgree float64 `json:"cross_agree,omitempty"`
}

// BestDate returns the most trustworthy date string for the document:
// the date detected in page metadata, else the search engine's published
// date. May be empty.
func (d *WebDoc) BestDate() string {
	if d.DetectedDate != "" {
		return d.DetectedDate
	}
	return d.Published
}
