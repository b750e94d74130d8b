package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"

	"signalbus/internal/config"
	"signalbus/internal/events"
)

// Journal persists every event delivered to it into SQLite. Its Record*
// methods are bound to the bus as subscribers.
type Journal struct {
	db *sql.DB
}

func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *Journal) Close() error { return j.db.Close() }

func (j *Journal) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS journal (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            event_type TEXT,
            payload_json TEXT,
            created_at TIMESTAMP
        );`,
		`CREATE INDEX IF NOT EXISTS idx_journal_type ON journal(event_type);`,
	}
	for _, stmt := range stmts {
		if _, err := j.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Entry is one journaled event.
type Entry struct {
	ID        int64           `json:"id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// RecordFileSeen journals a file event. Bus handler.
func (j *Journal) RecordFileSeen(ev events.FileSeen) {
	j.record("file_seen", ev)
}

// RecordNote journals an operator note. Bus handler.
func (j *Journal) RecordNote(ev events.Note) {
	j.record("note", ev)
}

func (j *Journal) record(eventType string, payload any) {
	raw, _ := json.Marshal(payload)
	_, err := j.db.Exec(`INSERT INTO journal(event_type, payload_json, created_at) VALUES(?,?,?)`,
		eventType, string(raw), config.Now())
	if err != nil {
		log.Printf("journal: record %s: %v", eventType, err)
	}
}

// Recent returns the newest entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT id, event_type, payload_json, created_at FROM journal ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var e Entry
		var payload string
		if err := rows.Scan(&e.ID, &e.EventType, &payload, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Payload = json.RawMessage(payload)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountByType returns journaled event counts per type.
func (j *Journal) CountByType(ctx context.Context) (map[string]int64, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT event_type, COUNT(*) FROM journal GROUP BY event_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int64)
	for rows.Next() {
		var typ string
		var n int64
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		counts[typ] = n
	}
	return counts, rows.Err()
}

// Health returns err if DB not reachable.
func (j *Journal) Health(ctx context.Context) error {
	row := j.db.QueryRowContext(ctx, `SELECT 1`)
	var v int
	if err := row.Scan(&v); err != nil {
		return fmt.Errorf("journal health: %w", err)
	}
	return nil
}
