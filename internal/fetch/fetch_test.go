package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/vbascerano/dossier/internal/cache"
	"github.com/vbascerano/dossier/internal/model"
)

const samplePage = `<!doctype html>
<html><head>
<title>Nuove tariffe annunciate</title>
<meta property="article:published_time" content="2025-10-21T09:30:00Z">
<script>var tracking = "should not leak into text";</script>
<style>.x { color: red }</style>
</head><body>
<nav>Home | Politica | Economia</nav>
<article>
<h1>Nuove tariffe annunciate</h1>
<p>Il governo ha annunciato che le nuove tariffe entreranno in vigore il mese prossimo, con una serie di esenzioni per i beni alimentari.</p>
<p>La decisione arriva dopo settimane di trattative con la Commissione.</p>
</article>
<footer>Copyright</footer>
</body></html>`

func testFetcher(store cache.Cache) *Fetcher {
	return NewFetcher(model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "dossier-test/0.1",
		MaxBodyBytes: 1 << 20,
	}, nil, store)
}

func TestExtractText(t *testing.T) {
	title, text := ExtractText(samplePage)
	if title != "Nuove tariffe annunciate" {
		t.Errorf("title = %q", title)
	}
	if strings.Contains(text, "should not leak") || strings.Contains(text, "color: red") {
		t.Error("script/style content leaked into text")
	}
	if strings.Contains(text, "Home | Politica") || strings.Contains(text, "Copyright") {
		t.Error("nav/footer content leaked into text")
	}
	if !strings.Contains(text, "tariffe entreranno in vigore") {
		t.Errorf("body text missing, got %q", text)
	}
}

func TestDetectDate(t *testing.T) {
	cases := []struct {
		name, src, want string
	}{
		{"og", samplePage, "2025-10-21"},
		{"jsonld", `<html><head><script type="application/ld+json">{"@type":"NewsArticle","datePublished":"2025-10-19T08:00:00+02:00"}</script></head><body></body></html>`, "2025-10-19"},
		{"jsonld-array", `<html><head><script type="application/ld+json">[{"@type":"Org"},{"dateCreated":"2025-10-18"}]</script></head><body></body></html>`, "2025-10-18"},
		{"meta-name", `<html><head><meta name="pubdate" content="2025-10-17"></head><body></body></html>`, "2025-10-17"},
		{"time-tag", `<html><body><time datetime="2025-10-16T12:00:00Z">ieri</time></body></html>`, "2025-10-16"},
		{"iso-fallback", `<html><body>aggiornato 2025-10-15 10:30 dal desk</body></html>`, "2025-10-15"},
		{"none", `<html><body>niente date qui</body></html>`, ""},
	}
	for _, c := range cases {
		if got := DetectDate(c.src); got != c.want {
			t.Errorf("%s: DetectDate = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestSniffLang(t *testing.T) {
	it := "Il governo ha annunciato che le nuove misure sono per il sostegno delle famiglie, anche con fondi della regione."
	en := "The ministry said that the measures will be extended and that the funds have been allocated from the budget."
	if got := SniffLang(it); got != "it" {
		t.Errorf("italian text detected as %q", got)
	}
	if got := SniffLang(en); got != "en" {
		t.Errorf("english text detected as %q", got)
	}
	if got := SniffLang(""); got != "unknown" {
		t.Errorf("empty text detected as %q", got)
	}
}

func TestLooksLive(t *testing.T) {
	if !LooksLive("https://news.example/diretta/ue-consiglio", "") {
		t.Error("diretta URL not flagged")
	}
	if !LooksLive("https://news.example/a", "LIVE updates: summit day two") {
		t.Error("live title not flagged")
	}
	if LooksLive("https://news.example/quarterly-report", "Quarterly results") {
		t.Error("ordinary article flagged as live")
	}
}

func TestEnrich(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	store := cache.NewMemory(time.Minute)
	f := testFetcher(store)

	d := &model.WebDoc{URL: srv.URL + "/articolo", Snippet: "seed snippet"}
	if err := f.Enrich(context.Background(), d); err != nil {
		t.Fatal(err)
	}
	if d.Title != "Nuove tariffe annunciate" {
		t.Errorf("title = %q", d.Title)
	}
	if d.DetectedDate != "2025-10-21" {
		t.Errorf("detected date = %q", d.DetectedDate)
	}
	if d.Lang != "it" {
		t.Errorf("lang = %q", d.Lang)
	}
	if d.Mime != "text/html" {
		t.Errorf("mime = %q", d.Mime)
	}
	if !strings.HasPrefix(d.Hash, "sha256:") {
		t.Errorf("hash = %q", d.Hash)
	}
	if d.Snippet != "seed snippet" {
		t.Error("seed fields must survive enrichment")
	}

	// Second enrichment of the same URL must come from cache.
	d2 := &model.WebDoc{URL: srv.URL + "/articolo"}
	if err := f.Enrich(context.Background(), d2); err != nil {
		t.Fatal(err)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("server hit %d times, want 1", hits)
	}
	if d2.Title != d.Title || d2.Hash != d.Hash {
		t.Error("cached extraction differs from live one")
	}
}

func TestEnrich_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	d := &model.WebDoc{URL: srv.URL}
	if err := testFetcher(nil).Enrich(context.Background(), d); err == nil {
		t.Error("404 should surface as an error")
	}
}

func TestEnrich_PDFRecordedNotExtracted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	d := &model.WebDoc{URL: srv.URL + "/report.pdf"}
	if err := testFetcher(nil).Enrich(context.Background(), d); err != nil {
		t.Fatal(err)
	}
	if d.Mime != "application/pdf" {
		t.Errorf("mime = %q", d.Mime)
	}
	if d.Text != "" {
		t.Error("pdf body must not be extracted as text")
	}
}

func TestRobotsDisallow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
			return
		}
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	robots := NewRobots("dossier-test/0.1", 5*time.Second)
	allowed, err := robots.Allowed(context.Background(), srv.URL+"/private/doc")
	if err != nil {
		t.Fatal(err)
	}
	if allowed {
		t.Error("disallowed path reported as allowed")
	}
	allowed, _ = robots.Allowed(context.Background(), srv.URL+"/public/doc")
	if !allowed {
		t.Error("allowed path reported as disallowed")
	}
}

func TestClip_RuneBoundary(t *testing.T) {
	s := strings.Repeat("x", 199) + "à-la-une"
	got := clip(s, 200)
	if !utf8.ValidString(got) {
		t.Errorf("clip split a rune: %q", got)
	}
	if len(got) > 200 {
		t.Errorf("clip returned %d bytes", len(got))
	}
	if short := clip("città", 200); short != "città" {
		t.Errorf("short string changed: %q", short)
	}
}
