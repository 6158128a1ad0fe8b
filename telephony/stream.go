package telephony

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// MarkName is the acknowledgment label attached to every outbound audio
// chunk. The stream echoes it back once the chunk has been played.
const MarkName = "responsePart"

// Inbound stream event names.
const (
	EventStart = "start"
	EventMedia = "media"
	EventMark  = "mark"
	EventStop  = "stop"
)

// StreamMessage is one inbound frame from the telephony media stream.
type StreamMessage struct {
	Event string `json:"event"`
	Start *struct {
		StreamSID string `json:"streamSid"`
	} `json:"start,omitempty"`
	Media *struct {
		Timestamp string `json:"timestamp"`
		Payload   string `json:"payload"`
	} `json:"media,omitempty"`
	Mark *struct {
		Name string `json:"name"`
	} `json:"mark,omitempty"`
}

type mediaMessage struct {
	Event     string       `json:"event"`
	StreamSID string       `json:"streamSid"`
	Media     mediaPayload `json:"media"`
}

type mediaPayload struct {
	Payload string `json:"payload"`
}

type markMessage struct {
	Event     string   `json:"event"`
	StreamSID string   `json:"streamSid"`
	Mark      markName `json:"mark"`
}

type markName struct {
	Name string `json:"name"`
}

type clearMessage struct {
	Event     string `json:"event"`
	StreamSID string `json:"streamSid"`
}

// Conn is the bidirectional telephony stream for one call. Reads are
// single-goroutine (the relay's inbound pump); writes may come from the
// outbound pump and the interruption path concurrently.
type Conn interface {
	// ReadMessage blocks until the next stream frame arrives or the stream
	// closes.
	ReadMessage(ctx context.Context) (*StreamMessage, error)

	// WriteMedia sends one base64 audio chunk to the caller.
	WriteMedia(ctx context.Context, streamSID, payload string) error

	// WriteMark sends a playback acknowledgment request.
	WriteMark(ctx context.Context, streamSID string) error

	// WriteClear flushes any buffered-but-unplayed audio for the stream.
	WriteClear(ctx context.Context, streamSID string) error

	// Close tears the stream down. Safe to call more than once.
	Close() error
}

// Upgrader returns the websocket upgrader for media stream endpoints. The
// telephony provider connects from its own infrastructure, so origin checks
// are disabled.
func Upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
}

// NewConn wraps an upgraded websocket as a telephony Conn.
func NewConn(ws *websocket.Conn) Conn {
	return &wsConn{ws: ws}
}

type wsConn struct {
	ws *websocket.Conn

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

func (c *wsConn) ReadMessage(ctx context.Context) (*StreamMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return nil, err
	}

	var msg StreamMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}

	return &msg, nil
}

func (c *wsConn) WriteMedia(ctx context.Context, streamSID, payload string) error {
	return c.writeJSON(ctx, mediaMessage{
		Event:     EventMedia,
		StreamSID: streamSID,
		Media:     mediaPayload{Payload: payload},
	})
}

func (c *wsConn) WriteMark(ctx context.Context, streamSID string) error {
	return c.writeJSON(ctx, markMessage{
		Event:     EventMark,
		StreamSID: streamSID,
		Mark:      markName{Name: MarkName},
	})
}

func (c *wsConn) WriteClear(ctx context.Context, streamSID string) error {
	return c.writeJSON(ctx, clearMessage{Event: "clear", StreamSID: streamSID})
}

func (c *wsConn) writeJSON(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.ws.WriteJSON(v)
}

func (c *wsConn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.ws.Close()
	})
	return c.closeErr
}
