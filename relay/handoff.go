package relay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hupe1980/callbridge/agent"
	"github.com/hupe1980/callbridge/realtime"
)

// handleTransfer drives the live agent-switch state machine:
//
//	Active(A) -> Transferring -> Active(B), with rollback to Active(A) on
//	any failure after validation.
//
// The new connection is opened before the old one is closed so a connection
// always exists, and the old connection is closed strictly after the new
// connection's initialization sequence has been issued. Only one handoff may
// be in flight per session; a transfer arriving while one is running is
// rejected as a no-op.
func (s *Session) handleTransfer(ctx context.Context, callID string, args map[string]any) {
	req, err := agent.ParseTransferRequest(args)
	if err != nil {
		s.logger.Warn("malformed transfer request, skipping", "error", err)
		return
	}

	s.mu.Lock()
	if s.transferring {
		s.mu.Unlock()
		s.logger.Warn("transfer already in flight, rejecting", "destination", req.Destination)
		return
	}

	currentAgent := s.agentName
	if !s.registry.ValidateTransfer(currentAgent, req.Destination) {
		s.mu.Unlock()
		s.logger.Warn("transfer not allowed",
			"from", currentAgent, "destination", req.Destination)
		return
	}

	s.transferring = true
	oldConn := s.conn
	// Referenced until the handoff resolves so a racing teardown closes the
	// draining connection too.
	s.drainingConn = oldConn
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.transferring = false
		s.drainingConn = nil
		s.mu.Unlock()
	}()

	dest, ok := s.registry.Get(req.Destination)
	if !ok {
		s.logger.Warn("transfer destination not found", "destination", req.Destination)
		return
	}

	s.logger.Info("transferring",
		"from", currentAgent, "to", dest.Name, "rationale", req.Rationale)

	// Acknowledge on the still-active connection so the current agent can
	// verbally announce the handoff before losing the channel.
	s.sendTransferAck(ctx, oldConn, callID, dest.Name, req.Rationale)

	// New connection before old-close: the call must never be without a
	// backend connection.
	newConn, err := s.dialer.Dial(ctx, dest.Model)
	if err != nil {
		s.logger.Error("handoff dial failed, staying on current agent",
			"destination", dest.Name, "error", err)
		return
	}

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		_ = newConn.Close()
		return
	}
	s.pendingConn = newConn
	s.conn = newConn
	s.connGen++
	s.agentName = dest.Name
	s.mu.Unlock()

	pendingContext := fmt.Sprintf("Hi, I was transferred here because: %s. Context: %s", req.Rationale, req.Context)

	if err := s.initializeAgent(ctx, newConn, dest, pendingContext); err != nil {
		s.rollback(oldConn, newConn, currentAgent)
		s.logger.Error("handoff initialization failed, rolled back",
			"destination", dest.Name, "error", err)
		return
	}

	s.mu.Lock()
	s.pendingConn = nil
	s.mu.Unlock()

	// Close the old connection strictly after the new connection's
	// initialization has been issued.
	_ = oldConn.Close()

	s.logger.Info("transfer complete", "agent", dest.Name)
}

// sendTransferAck delivers the transfer function's success output and a
// resume-generation instruction on the old connection. Failures are logged
// only; a broken old connection should not prevent the handoff that will
// replace it.
func (s *Session) sendTransferAck(ctx context.Context, conn realtime.Conn, callID, destination, rationale string) {
	ack, _ := json.Marshal(map[string]string{
		"status":  "success",
		"message": fmt.Sprintf("Transferring to %s: %s", destination, rationale),
	})

	if err := conn.Send(ctx, realtime.FunctionCallOutput(callID, string(ack))); err != nil {
		s.logger.Warn("transfer ack failed", "error", err)
		return
	}
	if err := conn.Send(ctx, realtime.ResponseCreate()); err != nil {
		s.logger.Warn("transfer ack resume failed", "error", err)
	}
}

// rollback restores the old connection as active and discards the half-open
// new connection, leaving the session on the prior agent.
func (s *Session) rollback(oldConn, newConn realtime.Conn, priorAgent string) {
	s.mu.Lock()
	s.conn = oldConn
	s.connGen++
	s.agentName = priorAgent
	s.pendingConn = nil
	s.mu.Unlock()

	_ = newConn.Close()
}
