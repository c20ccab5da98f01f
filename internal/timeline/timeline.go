// Package timeline reconstructs a best-effort chronology of events from
// document metadata and body text.
package timeline

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/vbascerano/dossier/internal/model"
	"github.com/vbascerano/dossier/internal/util"
)

const (
	itMonths     = "gennaio|febbraio|marzo|aprile|maggio|giugno|luglio|agosto|settembre|ottobre|novembre|dicembre"
	enMonths     = "january|february|march|april|may|june|july|august|september|october|november|december"
	sentenceSpan = 180
)

// dateRx matches numeric (YYYY-M-D) and month-name (it/en) date forms.
var dateRx = regexp.MustCompile(
	`(?i)\b(\d{4}[-/]\d{1,2}[-/]\d{1,2}|\d{1,2}\s+(?:` + itMonths + `|` + enMonths + `)\s+\d{4})\b`)

var wsRx = regexp.MustCompile(`\s+`)

// Event is one extracted timeline entry before report assembly: the
// calendar date, the snippet and the numeric reference ids implicated.
type Event struct {
	Date    string `json:"date"`
	Text    string `json:"text"`
	Sources []int  `json:"sources"`
}

// Extractor finds dated events in ranked documents.
type Extractor struct {
	cfg model.TimelineConfig
}

// New creates an Extractor with the given configuration.
func New(cfg model.TimelineConfig) *Extractor {
	return &Extractor{cfg: cfg}
}

// Extract runs the two extraction passes over the ranked documents and
// returns events ordered by date ascending, capped per day and truncated
// to the event budget. refs maps numeric reference ids to document URLs;
// either window bound may be empty.
func (e *Extractor) Extract(docs []*model.WebDoc, refs map[int]string, fromISO, toISO string) []Event {
	type raw struct {
		date    string
		text    string
		sources []int
	}
	var events []raw
	seen := make(map[[2]string]bool)

	urlToID := make(map[string]int, len(refs))
	for id, u := range refs {
		urlToID[u] = id
	}
	sourcesFor := func(d *model.WebDoc) []int {
		if id, ok := urlToID[d.URL]; ok {
			return []int{id}
		}
		return nil
	}

	// Pass 1: one headline event per document whose best date is in window.
	for _, d := range docs {
		iso := util.ToISODate(d.BestDate())
		if !inWindow(iso, fromISO, toISO) {
			continue
		}
		title := strings.TrimSpace(d.Title)
		if title == "" {
			continue
		}
		key := [2]string{iso, strings.ToLower(title)}
		if seen[key] {
			continue
		}
		seen[key] = true
		events = append(events, raw{iso, clip(title, 200), sourcesFor(d)})
	}

	// Pass 2: date-like substrings in the leading body text.
	bodyDocs := docs
	if len(bodyDocs) > e.cfg.BodyDocs {
		bodyDocs = bodyDocs[:e.cfg.BodyDocs]
	}
	for _, d := range bodyDocs {
		text := d.Text
		if len(text) > e.cfg.BodyChars {
			text = text[:e.cfg.BodyChars]
		}
		for _, loc := range dateRx.FindAllStringIndex(text, -1) {
			iso := util.ToISODate(text[loc[0]:loc[1]])
			if !inWindow(iso, fromISO, toISO) {
				continue
			}
			snippet := sentenceAround(text, loc[0], loc[1])
			if len(snippet) < e.cfg.MinSnippet {
				continue
			}
			if isNoisyLive(d, snippet) {
				continue
			}
			key := [2]string{iso, strings.ToLower(snippet)}
			if seen[key] {
				continue
			}
			seen[key] = true
			events = append(events, raw{iso, clip(snippet, 220), sourcesFor(d)})
			if len(events) >= e.cfg.MaxEvents*2 {
				break
			}
		}
	}

	// Post-processing: at most N per calendar day, ascending, budget cap.
	byDay := make(map[string][]raw)
	for _, ev := range events {
		byDay[ev.date] = append(byDay[ev.date], ev)
	}
	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	var out []Event
	for _, day := range days {
		group := byDay[day]
		if len(group) > e.cfg.EventsPerDay {
			group = group[:e.cfg.EventsPerDay]
		}
		for _, ev := range group {
			out = append(out, Event{Date: ev.date, Text: ev.text, Sources: ev.sources})
		}
	}
	if len(out) > e.cfg.MaxEvents {
		out = out[:e.cfg.MaxEvents]
	}
	return out
}

// inWindow reports whether the ISO date falls inside the optional bounds.
// An unresolvable date never qualifies.
func inWindow(iso, fromISO, toISO string) bool {
	if iso == "" {
		return false
	}
	if fromISO != "" && iso < fromISO {
		return false
	}
	if toISO != "" && iso > toISO {
		return false
	}
	return true
}

// sentenceAround extracts the sentence containing [start,end), bounded by
// the nearest '.' terminators or a fixed span when none is found.
func sentenceAround(text string, start, end int) string {
	left := strings.LastIndex(text[:start], ".")
	if left == -1 {
		left = 0
	} else {
		left++
	}
	right := strings.Index(text[end:], ".")
	if right == -1 {
		right = min(len(text), end+sentenceSpan)
	} else {
		right += end
	}
	return strings.TrimSpace(wsRx.ReplaceAllString(text[left:right], " "))
}

// isNoisyLive flags rolling-coverage chatter: a live-flagged document whose
// snippet carries repeated time stamps or live-blog markers.
func isNoisyLive(d *model.WebDoc, snippet string) bool {
	if !d.IsLive {
		return false
	}
	s := strings.ToLower(snippet)
	return strings.Count(s, ":") >= 2 || strings.Contains(s, "live") || strings.Contains(s, "diretta")
}

// clip truncates to at most n bytes without splitting a rune.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
