package render

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vbascerano/dossier/internal/model"
)

var slugRx = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives a filesystem-safe stem from a query string.
func Slug(query string) string {
	s := slugRx.ReplaceAllString(strings.ToLower(query), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "report"
	}
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}

// WriteFiles writes report.json and report.md under dir, named after the
// query slug. Returns the two paths.
func WriteFiles(r *model.Report, dir string) (jsonPath, mdPath string, err error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("create output dir: %w", err)
	}
	stem := Slug(r.Metadata.Query)

	raw, err := r.ToJSON()
	if err != nil {
		return "", "", fmt.Errorf("encode report: %w", err)
	}
	jsonPath = filepath.Join(dir, stem+".json")
	if err := os.WriteFile(jsonPath, raw, 0644); err != nil {
		return "", "", fmt.Errorf("write json: %w", err)
	}

	mdPath = filepath.Join(dir, stem+".md")
	if err := os.WriteFile(mdPath, []byte(Markdown(r)), 0644); err != nil {
		return jsonPath, "", fmt.Errorf("write markdown: %w", err)
	}
	return jsonPath, mdPath, nil
}
