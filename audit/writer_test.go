package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_AppendsDateStampedJSONLines(t *testing.T) {
	dir := t.TempDir()

	w := NewWriter(dir)
	w.now = func() time.Time {
		return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	}

	require.NoError(t, w.Append("negotiation_outcome", map[string]any{"final": 150000}))
	require.NoError(t, w.Append("negotiation_outcome", map[string]any{"final": 155000}))

	f, err := os.Open(filepath.Join(dir, "negotiation_outcome_2026-03-14.jsonl"))
	require.NoError(t, err)
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		entries = append(entries, e)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, entries, 2)
	assert.Equal(t, "negotiation_outcome", entries[0].EventType)
	assert.Equal(t, 2026, entries[0].Timestamp.Year())

	payload := entries[1].Payload.(map[string]any)
	assert.Equal(t, float64(155000), payload["final"])
}

func TestWriter_SeparatesEventTypes(t *testing.T) {
	dir := t.TempDir()

	w := NewWriter(dir)
	w.now = func() time.Time {
		return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	}

	require.NoError(t, w.Append("recruiter_request", map[string]any{"company": "Acme"}))
	require.NoError(t, w.Append("negotiation_outcome", map[string]any{"final": 1}))

	names, err := filepath.Glob(filepath.Join(dir, "*.jsonl"))
	require.NoError(t, err)
	assert.Len(t, names, 2)
}

func TestWriter_UnserializablePayload(t *testing.T) {
	w := NewWriter(t.TempDir())

	err := w.Append("bad", map[string]any{"fn": func() {}})
	assert.Error(t, err)
}
