package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vbascerano/dossier/internal/model"
)

func init() {
	sleepBetweenPages = func() {}
}

func testCfg(url string) (model.SearchConfig, model.HTTPConfig) {
	cfg := model.DefaultConfig()
	cfg.Search.SearxURL = url
	cfg.Search.ReliefWebAPI = url
	cfg.Search.Pages = 2
	cfg.Search.PageSize = 2
	return cfg.Search, cfg.HTTP
}

func TestEndpoint(t *testing.T) {
	cases := map[string]string{
		"http://localhost:8880":         "http://localhost:8880/search",
		"http://localhost:8880/":        "http://localhost:8880/search",
		"http://localhost:8880/search":  "http://localhost:8880/search",
		"http://localhost:8880/search/": "http://localhost:8880/search/",
	}
	for in, want := range cases {
		if got := endpoint(in); got != want {
			t.Errorf("endpoint(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSearch_NormalizesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("format") != "json" || q.Get("q") != "tariffe" {
			t.Errorf("unexpected query params: %v", q)
		}
		page := q.Get("pageno")
		resp := searxResponse{Results: []searxResult{
			{URL: "https://a.example/" + page, Title: "Title " + page, Content: "snippet", PublishedDate: "2025-10-21T09:00:00Z", Engine: "bing"},
			{URL: "https://b.example/" + page, Title: "Other", Snippet: "fallback snippet", Published: "21/10/2025"},
			{URL: "https://c.example/" + page, Title: "Over page size"},
		}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	scfg, hcfg := testCfg(srv.URL)
	docs, err := NewClient(scfg, hcfg).Search(context.Background(), "tariffe")
	if err != nil {
		t.Fatal(err)
	}
	// 2 pages, page size caps each at 2
	if len(docs) != 4 {
		t.Fatalf("got %d docs, want 4", len(docs))
	}
	if docs[0].Published != "2025-10-21" {
		t.Errorf("publishedDate not normalized: %q", docs[0].Published)
	}
	if docs[1].Published != "2025-10-21" {
		t.Errorf("day-first published not normalized: %q", docs[1].Published)
	}
	if docs[1].Snippet != "fallback snippet" {
		t.Errorf("snippet fallback not applied: %q", docs[1].Snippet)
	}
}

func TestSearch_UnreachableInstance(t *testing.T) {
	scfg, hcfg := testCfg("http://127.0.0.1:1/search")
	docs, err := NewClient(scfg, hcfg).Search(context.Background(), "q")
	if err == nil {
		t.Error("expected error for unreachable instance")
	}
	if len(docs) != 0 {
		t.Errorf("got %d docs from unreachable instance", len(docs))
	}
}

func TestSearch_PartialFailureKeepsGoodPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageno") == "2" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(searxResponse{Results: []searxResult{
			{URL: "https://a.example/1", Title: "ok"},
		}})
	}))
	defer srv.Close()

	scfg, hcfg := testCfg(srv.URL)
	docs, err := NewClient(scfg, hcfg).Search(context.Background(), "q")
	if err != nil {
		t.Fatalf("partial failure should not surface when some pages succeeded: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d docs, want 1", len(docs))
	}
}

func TestUniqueByURL(t *testing.T) {
	docs := []*model.WebDoc{
		{URL: "https://a.example/1", Title: "first"},
		{URL: "https://a.example/1", Title: "dup"},
		{URL: ""},
		{URL: "https://b.example/2"},
	}
	out := UniqueByURL(docs)
	if len(out) != 2 {
		t.Fatalf("got %d, want 2", len(out))
	}
	if out[0].Title != "first" {
		t.Error("first occurrence must win")
	}
}

func TestReliefWeb_Reports(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		var req reliefWebRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Query.Value != "flood response" || req.Query.Operator != "AND" {
			t.Errorf("unexpected query: %+v", req.Query)
		}
		if len(req.Filter.Conditions) != 1 || req.Filter.Conditions[0].Field != "date.created" {
			t.Errorf("missing date filter: %+v", req.Filter)
		}
		var resp reliefWebResponse
		var item reliefWebItem
		item.Fields.Title = "Situation Report #4"
		item.Fields.URL = "https://reliefweb.int/report/x"
		item.Fields.Body = "Body text of the report."
		item.Fields.Date.Created = "2025-10-19T00:00:00+00:00"
		item.Fields.Source = []struct {
			Name string `json:"name"`
		}{{Name: "OCHA"}, {Name: ""}}
		resp.Data = append(resp.Data, item)
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	scfg, hcfg := testCfg(srv.URL)
	docs, err := NewReliefWeb(scfg, hcfg).Reports(context.Background(), "flood response", 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d docs, want 1", len(docs))
	}
	d := docs[0]
	if d.Engine != "reliefweb" || d.Source != "OCHA" {
		t.Errorf("engine/source = %q/%q", d.Engine, d.Source)
	}
	if d.Published != "2025-10-19" {
		t.Errorf("published = %q", d.Published)
	}
}
