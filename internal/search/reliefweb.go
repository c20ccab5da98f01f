package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vbascerano/dossier/internal/model"
	"github.com/vbascerano/dossier/internal/util"
)

// ReliefWeb collects humanitarian situation reports from the ReliefWeb
// reports API. It complements web search with primary UN-adjacent sources
// that general engines rank poorly.
type ReliefWeb struct {
	httpClient *http.Client
	cfg        model.SearchConfig
	userAgent  string
}

// NewReliefWeb creates a collector from the search and HTTP config.
func NewReliefWeb(cfg model.SearchConfig, httpCfg model.HTTPConfig) *ReliefWeb {
	return &ReliefWeb{
		httpClient: &http.Client{Timeout: httpCfg.Timeout},
		cfg:        cfg,
		userAgent:  httpCfg.UserAgent,
	}
}

type reliefWebRequest struct {
	AppName string             `json:"appname"`
	Query   reliefWebQuery     `json:"query"`
	Filter  reliefWebFilter    `json:"filter"`
	Fields  reliefWebFields    `json:"fields"`
	Limit   int                `json:"limit"`
	Sort    []string           `json:"sort"`
}

type reliefWebQuery struct {
	Value    string `json:"value"`
	Operator string `json:"operator"`
}

type reliefWebCondition struct {
	Field    string `json:"field"`
	Value    string `json:"value"`
	Operator string `json:"operator"`
}

type reliefWebFilter struct {
	Conditions []reliefWebCondition `json:"conditions"`
}

type reliefWebFields struct {
	Include []string `json:"include"`
}

type reliefWebItem struct {
	Fields struct {
		Title string `json:"title"`
		URL   string `json:"url"`
		Body  string `json:"body"`
		Date  struct {
			Created string `json:"created"`
		} `json:"date"`
		Source []struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"fields"`
}

type reliefWebResponse struct {
	Data []reliefWebItem `json:"data"`
}

// Reports fetches reports matching the query created in the last `days`
// days, newest first.
func (rw *ReliefWeb) Reports(ctx context.Context, query string, days int) ([]*model.WebDoc, error) {
	since := time.Now().UTC().AddDate(0, 0, -days).Format("2006-01-02T00:00:00Z")
	payload := reliefWebRequest{
		AppName: "dossier",
		Query:   reliefWebQuery{Value: query, Operator: "AND"},
		Filter: reliefWebFilter{Conditions: []reliefWebCondition{
			{Field: "date.created", Value: since, Operator: ">="},
		}},
		Fields: reliefWebFields{Include: []string{"title", "url", "date", "source", "body"}},
		Limit:  rw.cfg.ReliefWebRows,
		Sort:   []string{"-date.created"},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode reliefweb request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rw.cfg.ReliefWebAPI, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", rw.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := rw.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reliefweb: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reliefweb: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read reliefweb response: %w", err)
	}

	var parsed reliefWebResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode reliefweb response: %w", err)
	}

	docs := make([]*model.WebDoc, 0, len(parsed.Data))
	for _, item := range parsed.Data {
		f := item.Fields
		if f.URL == "" {
			continue
		}
		var names []string
		for _, s := range f.Source {
			if s.Name != "" {
				names = append(names, s.Name)
			}
		}
		hint := f.Body
		if len(hint) > 2000 {
			hint = hint[:2000]
		}
		docs = append(docs, &model.WebDoc{
			URL:       f.URL,
			Title:     f.Title,
			Snippet:   hint,
			Published: util.ToISODate(f.Date.Created),
			Engine:    "reliefweb",
			Source:    strings.Join(names, ","),
		})
	}
	return docs, nil
}
