package fetch

import (
	"encoding/json"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/vbascerano/dossier/internal/util"
)

// meta name= values checked for a publication date, in priority order.
var dateMetaNames = []string{"date", "pubdate", "publishdate", "published_time", "datePublished"}

var isoLikeRx = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}(:\d{2})?`)

// DetectDate looks for a publication date in page metadata: Open Graph
// article:published_time, schema.org JSON-LD, common meta names, a
// <time datetime> element, and finally any ISO-like timestamp in the
// markup. Returns YYYY-MM-DD or "".
func DetectDate(src string) string {
	root, err := html.Parse(strings.NewReader(src))
	if err == nil {
		if d := detectFromTree(root); d != "" {
			return d
		}
	}
	if m := isoLikeRx.FindString(src); m != "" {
		return util.ToISODate(m)
	}
	return ""
}

func detectFromTree(root *html.Node) string {
	var og, named, timeTag string
	var ldCandidates []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				prop, name, content := attr(n, "property"), attr(n, "name"), attr(n, "content")
				if content != "" {
					if og == "" && strings.EqualFold(prop, "article:published_time") {
						og = content
					}
					for _, want := range dateMetaNames {
						if named == "" && strings.EqualFold(name, want) {
							named = content
						}
					}
				}
			case "script":
				if strings.Contains(strings.ToLower(attr(n, "type")), "ld+json") {
					if raw := textOf(n); raw != "" {
						ldCandidates = append(ldCandidates, raw)
					}
				}
			case "time":
				if timeTag == "" {
					timeTag = attr(n, "datetime")
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	if d := util.ToISODate(og); d != "" {
		return d
	}
	for _, raw := range ldCandidates {
		if d := dateFromJSONLD(raw); d != "" {
			return d
		}
	}
	if d := util.ToISODate(named); d != "" {
		return d
	}
	return util.ToISODate(timeTag)
}

// dateFromJSONLD pulls datePublished/dateCreated/uploadDate out of a
// JSON-LD block, tolerating both object and array top levels.
func dateFromJSONLD(raw string) string {
	var top any
	if err := json.Unmarshal([]byte(raw), &top); err != nil {
		return ""
	}
	candidates, ok := top.([]any)
	if !ok {
		candidates = []any{top}
	}
	for _, c := range candidates {
		obj, ok := c.(map[string]any)
		if !ok {
			continue
		}
		for _, key := range []string{"datePublished", "dateCreated", "uploadDate"} {
			if v, ok := obj[key].(string); ok && v != "" {
				if d := util.ToISODate(v); d != "" {
					return d
				}
			}
		}
	}
	return ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
