package watch

import (
	"testing"

	"signalbus/bus"
	"signalbus/internal/config"
)

func TestMatchExt(t *testing.T) {
	cfg := config.Config{WatchExts: []string{".json", ".TXT"}}
	w := New(cfg, bus.New())

	cases := map[string]bool{
		"/data/a.json":  true,
		"/data/b.txt":   true,
		"/data/c.JSON":  true,
		"/data/d.csv":   false,
		"/data/no-ext":  false,
		"/data/e.jsonl": false,
	}
	for path, want := range cases {
		if got := w.matchExt(path); got != want {
			t.Fatalf("matchExt(%s) = %v, want %v", path, got, want)
		}
	}
}
