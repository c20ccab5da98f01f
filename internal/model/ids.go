package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Entity id prefixes. Every id has the shape PFX-0001 with a monotonically
// assigned 4-digit sequence; report ids additionally embed the UTC date.
const (
	PrefixSource       = "SRC"
	PrefixDocument     = "DOC"
	PrefixFinding      = "CLM"
	PrefixEvent        = "EVT"
	PrefixActor        = "ACT"
	PrefixRelationship = "REL"
	PrefixIndicator    = "IND"
	PrefixGeoFeature   = "GEO"
)

// NewID returns a short monotonic id: SRC-0001, SRC-0002, ...
func NewID(prefix string, seq int) string {
	return fmt.Sprintf("%s-%04d", prefix, seq)
}

// NewReportID returns a report id of the form RPT-YYYYMMDD-0001.
func NewReportID(ts time.Time, seq int) string {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return fmt.Sprintf("RPT-%s-%04d", ts.UTC().Format("20060102"), seq)
}

// SHA256Text returns the canonical content hash for document text.
// Identical non-empty text always yields an identical hash.
func SHA256Text(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "sha256:" + hex.EncodeToString(sum[:])
}

// Sequencer hands out per-kind monotonic sequence numbers during one
// assembly run. Not safe for concurrent use; assembly is single-threaded.
type Sequencer struct {
	counters map[string]int
}

// NewSequencer creates an empty Sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{counters: make(map[string]int)}
}

// Next returns the next id for the given prefix.
func (s *Sequencer) Next(prefix string) string {
	s.counters[prefix]++
	return NewID(prefix, s.counters[prefix])
}
