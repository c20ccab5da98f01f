package dedup

import "testing"

func TestSimHash_Deterministic(t *testing.T) {
	text := "Il governo ha annunciato nuove misure commerciali il 4 novembre 2025."
	a := SimHash(text, 64)
	b := SimHash(text, 64)
	if a != b {
		t.Errorf("identical text produced different fingerprints: %x vs %x", a, b)
	}
	if a == 0 {
		t.Error("non-empty text should not produce the zero fingerprint")
	}
}

func TestSimHash_ZeroOnEmptyTokens(t *testing.T) {
	if got := SimHash("", 64); got != 0 {
		t.Errorf("empty text: got %x, want 0", got)
	}
	// Punctuation and single characters tokenize to nothing.
	if got := SimHash("! ? . a b , ;", 64); got != 0 {
		t.Errorf("token-free text: got %x, want 0", got)
	}
}

func TestSimHash_SimilarTextsAreClose(t *testing.T) {
	base := "The trade representative announced new tariffs on steel and aluminum imports from several countries this week"
	variant := "The trade representative announced new tariffs on steel and aluminum imports from several nations this week"
	unrelated := "Ricetta della torta di mele con cannella zucchero burro farina uova e limone per otto persone"

	near := Hamming(SimHash(base, 64), SimHash(variant, 64))
	far := Hamming(SimHash(base, 64), SimHash(unrelated, 64))

	if near >= far {
		t.Errorf("expected near distance (%d) < far distance (%d)", near, far)
	}
}

func TestHamming(t *testing.T) {
	if got := Hamming(0b1010, 0b1010); got != 0 {
		t.Errorf("identical fingerprints: got %d, want 0", got)
	}
	if got := Hamming(0b1010, 0b0101); got != 4 {
		t.Errorf("got %d, want 4", got)
	}
}
