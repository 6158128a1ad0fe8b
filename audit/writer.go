package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Entry is the envelope written for every audit record.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	Payload   any       `json:"payload"`
}

// Writer appends JSON-line entries to date-stamped files under a directory.
// Safe for concurrent use; writes are serialized.
type Writer struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

// NewWriter creates a Writer rooted at dir. The directory is created on first
// append.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, now: time.Now}
}

// Append writes one entry for the given event type. The payload must be
// JSON-serializable.
func (w *Writer) Append(eventType string, payload any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now().UTC()

	entry := Entry{
		Timestamp: now,
		EventType: eventType,
		Payload:   payload,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create audit dir: %w", err)
	}

	name := fmt.Sprintf("%s_%s.jsonl", eventType, now.Format("2006-01-02"))

	f, err := os.OpenFile(filepath.Join(w.dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write audit entry: %w", err)
	}

	return nil
}
