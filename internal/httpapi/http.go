package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"signalbus/bus"
	"signalbus/internal/config"
	"signalbus/internal/events"
	"signalbus/internal/journal"
	"signalbus/internal/metrics"
)

// Router builds HTTP handlers for /ops.
type Router struct {
	cfg       config.Config
	bus       *bus.Bus
	journal   *journal.Journal
	collector *metrics.Collector
}

func NewRouter(cfg config.Config, b *bus.Bus, j *journal.Journal, c *metrics.Collector) *Router {
	return &Router{cfg: cfg, bus: b, journal: j, collector: c}
}

func (r *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/ops/health", r.health)
	mux.HandleFunc("/ops/stats", r.stats)
	mux.HandleFunc("/ops/journal", r.recent)
	mux.HandleFunc("/ops/notes", r.notes)
}

func (r *Router) health(w http.ResponseWriter, req *http.Request) {
	if err := r.journal.Health(req.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	respondJSON(w, map[string]string{"status": "ok"})
}

func (r *Router) stats(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, map[string]any{
		"bus":      r.bus.Stats(),
		"counters": r.collector.Snapshot(),
	})
}

func (r *Router) recent(w http.ResponseWriter, req *http.Request) {
	entries, err := r.journal.Recent(req.Context(), r.cfg.JournalLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, entries)
}

// notes accepts an operator note and emits it on the bus; subscribers decide
// what happens to it (journal, webhook, counters).
func (r *Router) notes(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		http.Error(w, "text required", http.StatusBadRequest)
		return
	}
	ev := events.Note{Text: body.Text, At: config.Now()}
	if err := bus.Emit(r.bus, ev); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, ev)
}

func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("respond: %v", err)
	}
}
