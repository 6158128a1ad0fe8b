package realtime

import (
	"context"
	"fmt"

	"github.com/hupe1980/callbridge/tool"
)

// InitParams carries everything needed to bring a fresh backend connection to
// a ready state for one agent.
type InitParams struct {
	// Session configuration derived from the agent spec.
	TurnDetection           map[string]any
	InputAudioFormat        string
	OutputAudioFormat       string
	Voice                   string
	Instructions            string
	Modalities              []string
	Temperature             float64
	InputAudioTranscription map[string]any
	Tools                   []tool.Schema

	// PendingContext, when non-empty, is injected as a synthetic user message
	// after configuration so the agent opens its first turn with the handoff
	// rationale and conversation context.
	PendingContext string
}

// Initialize configures a freshly dialed connection: session.update with the
// agent's full configuration, the instructions as a system context item, a
// response.create, and finally the pending transfer context (if any) as a
// user message followed by another response.create.
//
// The send order matters for handoffs: the old connection may only be closed
// after every event here has been issued.
func Initialize(ctx context.Context, conn Conn, p InitParams) error {
	cfg := SessionConfig{
		TurnDetection:           p.TurnDetection,
		InputAudioFormat:        p.InputAudioFormat,
		OutputAudioFormat:       p.OutputAudioFormat,
		Voice:                   p.Voice,
		Instructions:            p.Instructions,
		Modalities:              p.Modalities,
		Temperature:             p.Temperature,
		InputAudioTranscription: p.InputAudioTranscription,
		ToolChoice:              "auto",
		Tools:                   p.Tools,
	}

	if err := conn.Send(ctx, SessionUpdate(cfg)); err != nil {
		return fmt.Errorf("send session.update: %w", err)
	}

	if err := conn.Send(ctx, MessageItem("system", p.Instructions)); err != nil {
		return fmt.Errorf("send system context: %w", err)
	}

	if err := conn.Send(ctx, ResponseCreate()); err != nil {
		return fmt.Errorf("send response.create: %w", err)
	}

	if p.PendingContext != "" {
		if err := conn.Send(ctx, MessageItem("user", p.PendingContext)); err != nil {
			return fmt.Errorf("send transfer context: %w", err)
		}
		if err := conn.Send(ctx, ResponseCreate()); err != nil {
			return fmt.Errorf("send response.create: %w", err)
		}
	}

	return nil
}
