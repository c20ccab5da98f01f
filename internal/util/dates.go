// Package util holds small helpers shared across pipeline stages.
package util

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Month names recognized in free text, Italian and English. Keys are
// lower-case full names; values the month number.
var monthNames = map[string]time.Month{
	"gennaio": time.January, "febbraio": time.February, "marzo": time.March,
	"aprile": time.April, "maggio": time.May, "giugno": time.June,
	"luglio": time.July, "agosto": time.August, "settembre": time.September,
	"ottobre": time.October, "novembre": time.November, "dicembre": time.December,
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

var (
	numericDateRx   = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})`)
	dayFirstDateRx  = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{4})`)
	monthNameDateRx = regexp.MustCompile(`(?i)^(\d{1,2})\s+([\p{L}]+)\s+(\d{4})`)
)

// timestamp layouts tried before the free-text forms.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC822,
}

// ParseDate parses ISO timestamps, numeric dates (year-first or day-first)
// and "4 novembre 2025" / "4 November 2025" forms. Day-first order is
// assumed for ambiguous numeric dates, matching the target locales.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	if m := numericDateRx.FindStringSubmatch(s); m != nil {
		return makeDate(m[1], m[2], m[3])
	}
	if m := dayFirstDateRx.FindStringSubmatch(s); m != nil {
		return makeDate(m[3], m[2], m[1])
	}
	if m := monthNameDateRx.FindStringSubmatch(s); m != nil {
		month, ok := monthNames[strings.ToLower(m[2])]
		if !ok {
			return time.Time{}, false
		}
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		if day < 1 || day > 31 {
			return time.Time{}, false
		}
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
	}

	return time.Time{}, false
}

func makeDate(year, month, day string) (time.Time, bool) {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC), true
}

// ToISODate converts any parsable date string to YYYY-MM-DD, or "" when
// the input cannot be resolved.
func ToISODate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return ""
	}
	return t.Format("2006-01-02")
}

// ToEpochSeconds converts any parsable date string to epoch seconds.
// Unresolvable input yields 0 so undated items sort last, never panic.
func ToEpochSeconds(s string) float64 {
	t, ok := ParseDate(s)
	if !ok {
		return 0
	}
	return float64(t.Unix())
}
