package dedup

import (
	"hash/fnv"
	"math/bits"
	"regexp"
	"strings"
)

// DefaultBits is the fingerprint width used when no width is configured.
const DefaultBits = 64

// tokenRx extracts alphanumeric runs of length >= 2 from lower-cased text.
// The accented range covers the Italian alphabet.
var tokenRx = regexp.MustCompile(`[a-zà-ù0-9]{2,}`)

func tokenize(text string) []string {
	return tokenRx.FindAllString(strings.ToLower(text), -1)
}

// SimHash computes a similarity-preserving fingerprint of the given width
// (1..64): per bit position the token hashes vote +1/-1, the output bit is
// set iff the sum is positive. Documents with overlapping vocabulary yield
// fingerprints with small bit-distance. Empty text yields zero.
func SimHash(text string, width int) uint64 {
	if width <= 0 || width > 64 {
		width = DefaultBits
	}
	if text == "" {
		return 0
	}

	var votes [64]int
	for _, tok := range tokenize(text) {
		h := fnv.New64a()
		h.Write([]byte(tok))
		sum := h.Sum64()
		for i := 0; i < width; i++ {
			if sum>>uint(i)&1 == 1 {
				votes[i]++
			} else {
				votes[i]--
			}
		}
	}

	var out uint64
	for i := 0; i < width; i++ {
		if votes[i] > 0 {
			out |= 1 << uint(i)
		}
	}
	return out
}

// Hamming returns the bit-distance between two equal-width fingerprints.
func Hamming(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}
