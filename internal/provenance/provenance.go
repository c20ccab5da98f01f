// Package provenance appends pipeline events to a daily JSONL log so a
// finished report can be traced back to what was searched, fetched and
// filtered. Logging is fire-and-forget: a write failure never affects
// the pipeline.
package provenance

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger appends events to provenance_YYYYMMDD.jsonl under dir.
type Logger struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// New creates a Logger. An empty dir disables logging entirely.
func New(dir string) *Logger {
	return &Logger{dir: dir, now: time.Now}
}

type event struct {
	TS   float64        `json:"ts"`
	Kind string         `json:"kind"`
	Data map[string]any `json:"data,omitempty"`
}

// Log records one event. Errors are swallowed.
func (l *Logger) Log(kind string, data map[string]any) {
	if l == nil || l.dir == "" {
		return
	}

	now := l.now().UTC()
	rec := event{
		TS:   float64(now.UnixNano()) / 1e9,
		Kind: kind,
		Data: data,
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return
	}
	path := filepath.Join(l.dir, "provenance_"+now.Format("20060102")+".jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()
	_, _ = f.Write(append(raw, '\n'))
}

// Count is shorthand for the common single-counter event shape.
func (l *Logger) Count(kind string, n int) {
	l.Log(kind, map[string]any{"count": n})
}
