package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"signalbus/internal/config"
	"signalbus/internal/events"
)

// Notifier forwards notes to a webhook if one is configured. SendNote is a
// bus handler; delivery failures are logged, never fatal to the emit.
type Notifier struct {
	cfg config.Config
}

func New(cfg config.Config) *Notifier {
	return &Notifier{cfg: cfg}
}

// SendNote posts the note as JSON to the configured webhook. Bus handler.
func (n *Notifier) SendNote(ev events.Note) {
	if err := n.post(ev); err != nil {
		log.Printf("notify: %v", err)
	}
}

func (n *Notifier) post(ev events.Note) error {
	if n.cfg.WebhookURL == "" {
		return nil
	}
	buf, _ := json.Marshal(ev)
	req, _ := http.NewRequest(http.MethodPost, n.cfg.WebhookURL, bytes.NewBuffer(buf))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}
	return nil
}
