// Package dedup collapses near-duplicate documents: URL canonicalization,
// SimHash content fingerprinting and greedy distance-threshold clustering.
package dedup

import (
	"net/url"
	"strings"
)

// trackingParams are query keys stripped during canonicalization,
// matched case-insensitively.
var trackingParams = map[string]bool{
	"utm_source":   true,
	"utm_medium":   true,
	"utm_campaign": true,
	"utm_term":     true,
	"utm_content":  true,
	"gclid":        true,
	"fbclid":       true,
}

// CanonicalURL normalizes a URL so equivalent links compare equal: tracking
// query parameters and the fragment are removed, the remaining parameters
// are re-encoded in their original relative order. Empty or unparseable
// input is returned unchanged. Idempotent.
func CanonicalURL(raw string) string {
	if raw == "" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Fragment = ""
	u.RawQuery = filterQuery(u.RawQuery)
	return u.String()
}

// filterQuery drops tracking keys and re-encodes the survivors, keeping
// blank values and the original pair order.
func filterQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	var kept []string
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		decodedKey, err := url.QueryUnescape(key)
		if err != nil {
			decodedKey = key
		}
		if trackingParams[strings.ToLower(decodedKey)] {
			continue
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			decodedValue = value
		}
		kept = append(kept, url.QueryEscape(decodedKey)+"="+url.QueryEscape(decodedValue))
	}
	return strings.Join(kept, "&")
}
