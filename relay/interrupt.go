package relay

import (
	"context"

	"github.com/hupe1980/callbridge/realtime"
)

// handleSpeechStarted is the barge-in controller: the caller started speaking
// while assistant audio may still be playing.
//
// If no utterance is in flight (no last assistant item, no playback start
// timestamp, or an empty pending-ack queue) this is a no-op. Otherwise it
// truncates the backend's record of the interrupted item to the audio the
// caller actually heard, flushes unplayed audio on the telephony side, and
// resets the per-utterance state so the next audio delta starts a fresh
// utterance. The sequence runs at most once per speech-started event.
func (s *Session) handleSpeechStarted(ctx context.Context) {
	s.mu.Lock()
	if s.lastAssistantItem == "" || !s.responseStarted || len(s.markQueue) == 0 {
		s.mu.Unlock()
		return
	}

	elapsed := s.latestMediaTimestamp - s.responseStartTS
	if elapsed < 0 {
		// Clock skew between stream timestamps must not produce a negative
		// truncation offset.
		elapsed = 0
	}

	itemID := s.lastAssistantItem
	streamSID := s.streamSID
	conn := s.conn

	// Reset before releasing the lock so a concurrent delta for the next
	// utterance is stamped as new, never attributed to the truncated one.
	s.markQueue = nil
	s.lastAssistantItem = ""
	s.responseStarted = false
	s.responseStartTS = 0
	s.mu.Unlock()

	s.logger.Info("interrupting response", "item_id", itemID, "audio_end_ms", elapsed)

	if err := conn.Send(ctx, realtime.Truncate(itemID, elapsed)); err != nil {
		s.logger.Warn("truncate failed", "error", err)
	}

	if err := s.tel.WriteClear(ctx, streamSID); err != nil {
		s.logger.Warn("clear failed", "error", err)
	}
}
