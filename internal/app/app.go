package app

import (
	"context"
	"log"
	"net/http"

	"signalbus/bus"
	"signalbus/internal/config"
	"signalbus/internal/httpapi"
	"signalbus/internal/journal"
	"signalbus/internal/metrics"
	"signalbus/internal/notify"
	"signalbus/internal/watch"
)

// App wires the bus and its subscribers together.
type App struct {
	cfg       config.Config
	bus       *bus.Bus
	journal   *journal.Journal
	collector *metrics.Collector
	watcher   *watch.Watcher
	mux       *http.ServeMux
}

func New(cfg config.Config) (*App, error) {
	j, err := journal.Open(cfg.JournalPath)
	if err != nil {
		return nil, err
	}
	b := bus.New()
	collector := metrics.NewCollector()

	bus.Bind(b, j, (*journal.Journal).RecordFileSeen)
	bus.Bind(b, j, (*journal.Journal).RecordNote)
	bus.Bind(b, collector, (*metrics.Collector).OnFileSeen)
	bus.Bind(b, collector, (*metrics.Collector).OnNote)
	if cfg.WebhookURL != "" {
		bus.Bind(b, notify.New(cfg), (*notify.Notifier).SendNote)
	}

	watcher := watch.New(cfg, b)
	mux := http.NewServeMux()
	httpapi.NewRouter(cfg, b, j, collector).Register(mux)
	return &App{cfg: cfg, bus: b, journal: j, collector: collector, watcher: watcher, mux: mux}, nil
}

// Run starts the watcher and HTTP server, blocking until ctx is done or the
// server fails.
func (a *App) Run(ctx context.Context) error {
	if err := a.watcher.Start(ctx); err != nil {
		return err
	}
	srv := &http.Server{Addr: ":" + a.cfg.HTTPPort, Handler: a.mux}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	log.Printf("http listening on %s", a.cfg.HTTPPort)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		err = nil
	}
	return err
}

// Close unbinds the journal handlers before closing the store, so no emit
// racing shutdown can reach a closed database.
func (a *App) Close() error {
	bus.Unbind(a.bus, a.journal, (*journal.Journal).RecordFileSeen)
	bus.Unbind(a.bus, a.journal, (*journal.Journal).RecordNote)
	return a.journal.Close()
}

func (a *App) Bus() *bus.Bus             { return a.bus }
func (a *App) Mux() *http.ServeMux       { return a.mux }
func (a *App) Journal() *journal.Journal { return a.journal }
