package realtime

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
)

// DefaultBaseURL is the production realtime endpoint.
const DefaultBaseURL = "wss://api.openai.com/v1/realtime"

// Conn is one backend connection for one agent's turn of the call. Reads are
// single-goroutine (the relay's outbound pump); Send may be called
// concurrently from both pumps and the handoff orchestrator.
type Conn interface {
	// ReadEvent blocks until the next server event arrives, the connection
	// closes, or ctx is done.
	ReadEvent(ctx context.Context) (*ServerEvent, error)

	// Send marshals and writes one client event.
	Send(ctx context.Context, event any) error

	// Close tears the connection down. Safe to call more than once.
	Close() error
}

// Options configure the Dialer.
type Options struct {
	// BaseURL overrides the realtime endpoint (tests, proxies).
	BaseURL string
	// Header carries extra handshake headers.
	Header http.Header
}

// Dialer opens authenticated backend connections for a given model.
type Dialer struct {
	apiKey string
	opts   Options
}

// NewDialer constructs a Dialer with optional overrides.
func NewDialer(apiKey string, optFns ...func(o *Options)) *Dialer {
	opts := Options{BaseURL: DefaultBaseURL}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Dialer{apiKey: apiKey, opts: opts}
}

// Dial opens a connection for the given model identifier. The caller owns the
// returned Conn and must Close it.
func (d *Dialer) Dial(ctx context.Context, model string) (Conn, error) {
	u, err := url.Parse(d.opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse realtime base url: %w", err)
	}
	q := u.Query()
	q.Set("model", model)
	u.RawQuery = q.Encode()

	header := http.Header{}
	for k, vs := range d.opts.Header {
		for _, v := range vs {
			header.Add(k, v)
		}
	}
	header.Set("Authorization", "Bearer "+d.apiKey)
	header.Set("OpenAI-Beta", "realtime=v1")

	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial realtime (%s): %w", resp.Status, err)
		}
		return nil, fmt.Errorf("dial realtime: %w", err)
	}

	return newWSConn(ws), nil
}

// wsConn adapts a gorilla connection to the Conn interface with write
// serialization.
type wsConn struct {
	ws *websocket.Conn

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

func newWSConn(ws *websocket.Conn) *wsConn {
	return &wsConn{ws: ws}
}

func (c *wsConn) ReadEvent(ctx context.Context) (*ServerEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return nil, err
	}

	return ParseServerEvent(data)
}

func (c *wsConn) Send(ctx context.Context, event any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.ws.WriteJSON(event)
}

func (c *wsConn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.ws.Close()
	})
	return c.closeErr
}
