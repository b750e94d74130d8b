package watch

import (
	"context"
	"log"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"signalbus/bus"
	"signalbus/internal/config"
	"signalbus/internal/events"
)

// Watcher monitors WatchDir and publishes a FileSeen event for every new file
// with a configured extension.
type Watcher struct {
	cfg config.Config
	bus *bus.Bus
}

func New(cfg config.Config, b *bus.Bus) *Watcher {
	return &Watcher{cfg: cfg, bus: b}
}

func (w *Watcher) Start(ctx context.Context) error {
	if !w.cfg.EnableWatcher {
		log.Println("watcher disabled")
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-watcher.Events:
				if evt.Op&(fsnotify.Create|fsnotify.Rename) != 0 && w.matchExt(evt.Name) {
					w.publish(evt)
				}
			case err := <-watcher.Errors:
				log.Printf("watcher error: %v", err)
			}
		}
	}()
	return watcher.Add(w.cfg.WatchDir)
}

func (w *Watcher) publish(evt fsnotify.Event) {
	ev := events.FileSeen{Path: evt.Name, Op: evt.Op.String(), At: config.Now()}
	if err := bus.Emit(w.bus, ev); err != nil {
		log.Printf("watcher emit %s: %v", evt.Name, err)
	}
}

func (w *Watcher) matchExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range w.cfg.WatchExts {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}
