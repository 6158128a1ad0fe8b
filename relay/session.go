package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/hupe1980/callbridge/agent"
	"github.com/hupe1980/callbridge/logging"
	"github.com/hupe1980/callbridge/realtime"
	"github.com/hupe1980/callbridge/telephony"
	"github.com/hupe1980/callbridge/tool"
)

// State is the session lifecycle: Connected (initial handshake done),
// Streaming (both pumps running), Closed (torn down).
type State int

const (
	// StateConnected means the session exists but pumps are not running yet.
	StateConnected State = iota
	// StateStreaming means both pumps are moving audio and events.
	StateStreaming
	// StateClosed means the session is torn down; terminal.
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateConnected:
		return "Connected"
	case StateStreaming:
		return "Streaming"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Dialer opens backend connections for a model identifier. *realtime.Dialer
// is the production implementation; tests substitute fakes.
type Dialer interface {
	Dial(ctx context.Context, model string) (realtime.Conn, error)
}

// DefaultLogEventTypes is the diagnostic allow-list: backend event types that
// are logged when they arrive but otherwise ignored by the relay.
var DefaultLogEventTypes = []string{
	"error",
	"response.content.done",
	"rate_limits.updated",
	"response.done",
	"input_audio_buffer.committed",
	"input_audio_buffer.speech_stopped",
	"input_audio_buffer.speech_started",
	"session.created",
}

// Options configure a Session.
type Options struct {
	// Logger defaults to NoOp.
	Logger logging.Logger
	// LogEventTypes overrides the diagnostic allow-list.
	LogEventTypes []string
	// Temperature for backend generation.
	Temperature float64
}

// Session relays one call between the telephony stream and the currently
// active backend connection. All mutable per-call state lives here, guarded
// by mu; the agent and tool registries are shared read-only process state.
type Session struct {
	id       string
	registry *agent.Registry
	tools    *tool.Registry
	dialer   Dialer
	tel      telephony.Conn
	logger   logging.Logger
	logTypes map[string]struct{}
	temp     float64

	mu        sync.Mutex
	state     State
	agentName string

	// Active backend connection plus its generation. The generation changes
	// on every swap (handoff or rollback) so a pump whose read failed can
	// tell "my connection was replaced" from "the call is over".
	conn    realtime.Conn
	connGen uint64

	// Transient connections of an in-flight handoff: the one being
	// initialized and the one being drained. Held so teardown can close both
	// if it races the orchestrator.
	pendingConn  realtime.Conn
	drainingConn realtime.Conn

	transferring bool

	streamSID            string
	latestMediaTimestamp int
	lastAssistantItem    string
	responseStartTS      int
	responseStarted      bool
	markQueue            []string
}

// NewSession builds a session for one incoming stream, starting on the given
// agent. Run must be called to start relaying.
func NewSession(
	registry *agent.Registry,
	tools *tool.Registry,
	dialer Dialer,
	tel telephony.Conn,
	initialAgent string,
	optFns ...func(o *Options),
) (*Session, error) {
	opts := Options{
		Logger:        logging.NoOpLogger{},
		LogEventTypes: DefaultLogEventTypes,
		Temperature:   0.8,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if _, ok := registry.Get(initialAgent); !ok {
		return nil, fmt.Errorf("initial agent %q not found", initialAgent)
	}

	logTypes := make(map[string]struct{}, len(opts.LogEventTypes))
	for _, t := range opts.LogEventTypes {
		logTypes[t] = struct{}{}
	}

	id := uuid.NewString()

	// Scope every log line of this call to its session id.
	logger := opts.Logger
	if scoped, ok := logger.(interface {
		With(args ...any) logging.Logger
	}); ok {
		logger = scoped.With("session_id", id)
	}

	return &Session{
		id:        id,
		registry:  registry,
		tools:     tools,
		dialer:    dialer,
		tel:       tel,
		logger:    logger,
		logTypes:  logTypes,
		temp:      opts.Temperature,
		state:     StateConnected,
		agentName: initialAgent,
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// AgentName returns the name of the currently active agent.
func (s *Session) AgentName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agentName
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run dials and initializes the initial agent's backend connection, then runs
// both pumps until the call ends, the context is cancelled, or a transport
// error occurs. All connections are closed before Run returns.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	spec, _ := s.registry.Get(s.agentName)

	conn, err := s.dialer.Dial(ctx, spec.Model)
	if err != nil {
		s.teardown()
		return fmt.Errorf("dial backend for %s: %w", spec.Name, err)
	}

	s.mu.Lock()
	s.conn = conn
	s.connGen++
	s.mu.Unlock()

	if err := s.initializeAgent(ctx, conn, spec, ""); err != nil {
		s.teardown()
		return fmt.Errorf("initialize %s: %w", spec.Name, err)
	}

	s.mu.Lock()
	s.state = StateStreaming
	s.mu.Unlock()

	s.logger.Info("session streaming", "agent", spec.Name)

	errCh := make(chan error, 2)
	go func() { errCh <- s.pumpTelephony(ctx) }()
	go func() { errCh <- s.pumpBackend(ctx) }()

	runErr := <-errCh
	cancel()
	s.teardown()
	<-errCh

	if runErr != nil && ctx.Err() == nil {
		return runErr
	}
	return nil
}

// active returns the current backend connection and its generation.
func (s *Session) active() (realtime.Conn, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn, s.connGen
}

// teardown closes every connection associated with the session, including a
// transiently open handoff connection, and moves the state to Closed.
func (s *Session) teardown() {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.state = StateClosed
	conn := s.conn
	pending := s.pendingConn
	draining := s.drainingConn
	s.pendingConn = nil
	s.drainingConn = nil
	s.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	if pending != nil {
		_ = pending.Close()
	}
	if draining != nil {
		_ = draining.Close()
	}
	_ = s.tel.Close()

	s.logger.Info("session closed")
}

// pumpTelephony is the inbound pump: telephony frames in arrival order to the
// currently active backend connection.
func (s *Session) pumpTelephony(ctx context.Context) error {
	for {
		msg, err := s.tel.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			// Stream end or transport failure; either way the call is over.
			s.logger.Info("telephony stream ended", "reason", err)
			return nil
		}

		switch msg.Event {
		case telephony.EventMedia:
			if msg.Media == nil {
				continue
			}
			s.handleMedia(ctx, msg.Media.Timestamp, msg.Media.Payload)

		case telephony.EventStart:
			if msg.Start == nil {
				continue
			}
			s.handleStreamStart(msg.Start.StreamSID)

		case telephony.EventMark:
			s.popMark()

		case telephony.EventStop:
			s.logger.Info("telephony stream stopped")
			return nil

		default:
			s.logger.Debug("unhandled telephony event", "event", msg.Event)
		}
	}
}

// handleMedia records the frame timestamp and forwards the audio to the
// connection active at send time.
func (s *Session) handleMedia(ctx context.Context, timestamp, payload string) {
	ts, err := strconv.Atoi(timestamp)
	if err != nil {
		s.logger.Warn("malformed media timestamp", "timestamp", timestamp)
		return
	}

	s.mu.Lock()
	if ts > s.latestMediaTimestamp {
		s.latestMediaTimestamp = ts
	}
	conn := s.conn
	s.mu.Unlock()

	if err := conn.Send(ctx, realtime.AudioAppend(payload)); err != nil {
		s.logger.Debug("audio append failed", "error", err)
	}
}

// handleStreamStart records the stream identifier and resets all
// per-utterance state to initial values.
func (s *Session) handleStreamStart(streamSID string) {
	s.mu.Lock()
	s.streamSID = streamSID
	s.latestMediaTimestamp = 0
	s.lastAssistantItem = ""
	s.responseStarted = false
	s.responseStartTS = 0
	s.mu.Unlock()

	s.logger.Info("incoming stream started", "stream_sid", streamSID)
}

// popMark removes the oldest pending playback acknowledgment. A mark with an
// empty queue is a no-op, not an error.
func (s *Session) popMark() {
	s.mu.Lock()
	if len(s.markQueue) > 0 {
		s.markQueue = s.markQueue[1:]
	}
	s.mu.Unlock()
}

// pumpBackend is the outbound pump: backend events in arrival order to
// telephony, the interruption controller, the dispatch bridge or the handoff
// orchestrator. A read failure on a connection that is no longer the active
// generation restarts the loop against the new connection instead of ending
// the session.
func (s *Session) pumpBackend(ctx context.Context) error {
	for {
		conn, gen := s.active()

		ev, err := conn.ReadEvent(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if _, current := s.active(); current != gen {
				// Connection was swapped by a handoff while we were blocked.
				s.logger.Debug("backend connection changed, restarting read loop")
				continue
			}
			return fmt.Errorf("backend connection closed: %w", err)
		}

		s.handleBackendEvent(ctx, ev)
	}
}

// handleBackendEvent routes one backend event.
func (s *Session) handleBackendEvent(ctx context.Context, ev *realtime.ServerEvent) {
	if _, ok := s.logTypes[ev.Type]; ok {
		s.logger.Debug("backend event", "type", ev.Type, "payload", string(ev.Raw))
	}

	switch ev.Type {
	case realtime.TypeAudioDelta:
		if ev.Delta != "" {
			s.handleAudioDelta(ctx, ev.ItemID, ev.Delta)
		}

	case realtime.TypeFunctionCallDone:
		s.handleFunctionCall(ctx, ev)

	case realtime.TypeSpeechStarted:
		s.handleSpeechStarted(ctx)

	case realtime.TypeError:
		if ev.Error != nil {
			s.logger.Error("backend error event", "code", ev.Error.Code, "message", ev.Error.Message)
		}
	}
}

// handleAudioDelta forwards synthesized audio to the caller, stamps the
// playback start of a new utterance, records the emitting item and enqueues a
// playback acknowledgment.
func (s *Session) handleAudioDelta(ctx context.Context, itemID, delta string) {
	s.mu.Lock()
	if !s.responseStarted {
		s.responseStarted = true
		s.responseStartTS = s.latestMediaTimestamp
	}
	if itemID != "" {
		s.lastAssistantItem = itemID
	}
	streamSID := s.streamSID
	s.mu.Unlock()

	if err := s.tel.WriteMedia(ctx, streamSID, delta); err != nil {
		s.logger.Debug("media write failed", "error", err)
		return
	}
	if err := s.tel.WriteMark(ctx, streamSID); err != nil {
		s.logger.Debug("mark write failed", "error", err)
		return
	}

	// Enqueued only once the mark is on the wire; a failed write would leave
	// an entry no acknowledgment ever pops.
	s.mu.Lock()
	s.markQueue = append(s.markQueue, telephony.MarkName)
	s.mu.Unlock()
}

// handleFunctionCall decodes a completed function call and routes it to the
// handoff orchestrator or the tool dispatch bridge.
func (s *Session) handleFunctionCall(ctx context.Context, ev *realtime.ServerEvent) {
	var args map[string]any
	if ev.Arguments != "" {
		if err := json.Unmarshal([]byte(ev.Arguments), &args); err != nil {
			s.logger.Warn("malformed function call arguments, skipping",
				"tool", ev.Name, "error", err)
			return
		}
	}

	s.logger.Info("function call", "tool", ev.Name, "call_id", ev.CallID)

	if ev.Name == agent.TransferToolName {
		s.handleTransfer(ctx, ev.CallID, args)
		return
	}

	s.dispatchTool(ctx, ev.CallID, ev.Name, args)
}

// initializeAgent sends the full initialization sequence for a spec on a
// fresh connection.
func (s *Session) initializeAgent(ctx context.Context, conn realtime.Conn, spec agent.Spec, pendingContext string) error {
	schemas, err := s.registry.SessionTools(spec.Name, s.tools)
	if err != nil {
		return err
	}

	return realtime.Initialize(ctx, conn, realtime.InitParams{
		TurnDetection:           spec.TurnDetection,
		InputAudioFormat:        spec.InputAudioFormat,
		OutputAudioFormat:       spec.OutputAudioFormat,
		Voice:                   spec.Voice,
		Instructions:            spec.Instructions,
		Modalities:              spec.Modalities,
		Temperature:             s.temp,
		InputAudioTranscription: spec.InputAudioTranscription,
		Tools:                   schemas,
		PendingContext:          pendingContext,
	})
}
