package metrics

import (
	"sync/atomic"

	"signalbus/internal/events"
)

// Collector counts events seen on the bus. Its On* methods are bus handlers.
type Collector struct {
	filesSeen int64
	notes     int64
}

func NewCollector() *Collector { return &Collector{} }

func (c *Collector) OnFileSeen(events.FileSeen) { atomic.AddInt64(&c.filesSeen, 1) }
func (c *Collector) OnNote(events.Note)         { atomic.AddInt64(&c.notes, 1) }

func (c *Collector) Snapshot() map[string]int64 {
	return map[string]int64{
		"files_seen": atomic.LoadInt64(&c.filesSeen),
		"notes":      atomic.LoadInt64(&c.notes),
	}
}
