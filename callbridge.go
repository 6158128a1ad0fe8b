// Package callbridge provides a high-level façade over the call relay and its
// services (agent registry, tool dispatch, backend dialing & logging) enabling
// rapid construction of multi-agent voice call systems. Most applications
// interact with this package by:
//  1. Building an agent.Registry and a tool.Registry
//  2. Creating a Bridge via New() (optionally overriding dialer and logger)
//  3. Handing each accepted media stream websocket to HandleMediaStream
//
// The façade delegates per-call work to relay.Session while keeping setup and
// usage ergonomics concise. All defaults are safe for local development; a
// production deployment typically supplies a structured logger and its own
// agent specs.
package callbridge

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/hupe1980/callbridge/agent"
	"github.com/hupe1980/callbridge/logging"
	"github.com/hupe1980/callbridge/realtime"
	"github.com/hupe1980/callbridge/relay"
	"github.com/hupe1980/callbridge/telephony"
	"github.com/hupe1980/callbridge/tool"
)

// Options configures the Bridge.
type Options struct {
	// InitialAgent answers every new call. Defaults to "main_agent".
	InitialAgent string
	// Dialer opens backend connections; defaults to a realtime.Dialer built
	// from OpenAIAPIKey.
	Dialer relay.Dialer
	// OpenAIAPIKey is used when no Dialer override is given.
	OpenAIAPIKey string
	// RealtimeBaseURL overrides the backend endpoint for the default dialer.
	RealtimeBaseURL string
	// LogEventTypes overrides the diagnostic event allow-list.
	LogEventTypes []string
	// Temperature for backend generation.
	Temperature float64
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Bridge is the high-level façade aggregating the registries and per-call
// relay sessions.
type Bridge struct {
	registry *agent.Registry
	tools    *tool.Registry
	opts     Options

	mu       sync.Mutex
	sessions map[string]context.CancelFunc
	closed   bool
}

// New creates a Bridge over the given registries with optional overrides.
// Every agent's declared tools are validated against the capability table at
// construction time.
func New(registry *agent.Registry, tools *tool.Registry, optFns ...func(o *Options)) (*Bridge, error) {
	opts := Options{
		InitialAgent:  "main_agent",
		LogEventTypes: relay.DefaultLogEventTypes,
		Temperature:   0.8,
		Logger:        logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Dialer == nil {
		opts.Dialer = realtime.NewDialer(opts.OpenAIAPIKey, func(o *realtime.Options) {
			if opts.RealtimeBaseURL != "" {
				o.BaseURL = opts.RealtimeBaseURL
			}
		})
	}

	if err := registry.ValidateTools(tools); err != nil {
		return nil, err
	}

	if _, ok := registry.Get(opts.InitialAgent); !ok {
		return nil, fmt.Errorf("initial agent %q not found", opts.InitialAgent)
	}

	return &Bridge{
		registry: registry,
		tools:    tools,
		opts:     opts,
		sessions: make(map[string]context.CancelFunc),
	}, nil
}

// HandleMediaStream upgrades the HTTP request to a media stream websocket and
// relays the call until it ends. Blocks for the duration of the call.
func (b *Bridge) HandleMediaStream(w http.ResponseWriter, r *http.Request) error {
	upgrader := telephony.Upgrader()

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("upgrade media stream: %w", err)
	}

	return b.HandleStream(r.Context(), telephony.NewConn(ws))
}

// HandleStream relays one already-established telephony stream. Blocks until
// the call ends, the bridge closes, or a transport error occurs.
func (b *Bridge) HandleStream(ctx context.Context, tel telephony.Conn) error {
	session, err := relay.NewSession(
		b.registry, b.tools, b.opts.Dialer, tel, b.opts.InitialAgent,
		func(o *relay.Options) {
			o.Logger = b.opts.Logger
			o.LogEventTypes = b.opts.LogEventTypes
			o.Temperature = b.opts.Temperature
		},
	)
	if err != nil {
		_ = tel.Close()
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		_ = tel.Close()
		return fmt.Errorf("bridge is closed")
	}
	b.sessions[session.ID()] = cancel
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.sessions, session.ID())
		b.mu.Unlock()
	}()

	return session.Run(ctx)
}

// Close cancels every active call session. The bridge accepts no new streams
// afterwards.
func (b *Bridge) Close() {
	b.mu.Lock()
	b.closed = true
	cancels := make([]context.CancelFunc, 0, len(b.sessions))
	for _, cancel := range b.sessions {
		cancels = append(cancels, cancel)
	}
	b.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}
