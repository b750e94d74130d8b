// Package events declares the event types flowing over the daemon's bus.
package events

import "time"

// FileSeen is published when the watcher observes a new file appearing in the
// watched directory.
type FileSeen struct {
	Path string    `json:"path"`
	Op   string    `json:"op"`
	At   time.Time `json:"at"`
}

// Note is an operator-injected event published through the ops API.
type Note struct {
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}
