package agent

import "fmt"

// Spec describes one conversational agent: its identity, realtime session
// configuration, the tools it may invoke and the agents it may hand a call
// off to. Specs are treated as immutable once a Registry is built from them.
type Spec struct {
	// Name is the unique agent identifier used for routing and transfers.
	Name string `json:"name"`
	// PublicDescription is shown to other agents when they decide where to
	// transfer a call.
	PublicDescription string `json:"publicDescription"`
	// Model is the backend realtime model identifier.
	Model string `json:"model"`
	// Instructions is the opaque prompt text sent at session initialization.
	Instructions string `json:"instructions"`
	// Voice selects the synthesized voice.
	Voice string `json:"voice"`
	// Modalities lists the enabled output modalities (text, audio).
	Modalities []string `json:"modalities"`
	// InputAudioFormat / OutputAudioFormat are the wire audio encodings.
	InputAudioFormat  string `json:"input_audio_format"`
	OutputAudioFormat string `json:"output_audio_format"`
	// TurnDetection configures backend voice activity detection.
	TurnDetection map[string]any `json:"turn_detection"`
	// InputAudioTranscription configures transcription of caller audio.
	InputAudioTranscription map[string]any `json:"input_audio_transcription"`
	// ToolNames declares which registered tools this agent may invoke.
	ToolNames []string `json:"tools"`
	// DownstreamAgents is the transfer whitelist: the only agent names this
	// agent may hand the call off to.
	DownstreamAgents []string `json:"downstream_agents"`
}

// Validate checks the minimal structural requirements of a spec.
func (s Spec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("agent spec missing name")
	}
	if s.Model == "" {
		return fmt.Errorf("agent %q missing model", s.Name)
	}
	if s.Instructions == "" {
		return fmt.Errorf("agent %q missing instructions", s.Name)
	}
	return nil
}

// clone deep-copies the slices and maps so registry-held specs cannot be
// mutated through a previously returned value.
func (s Spec) clone() Spec {
	c := s
	c.Modalities = append([]string(nil), s.Modalities...)
	c.ToolNames = append([]string(nil), s.ToolNames...)
	c.DownstreamAgents = append([]string(nil), s.DownstreamAgents...)
	c.TurnDetection = cloneMap(s.TurnDetection)
	c.InputAudioTranscription = cloneMap(s.InputAudioTranscription)
	return c
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// TransferRequest is the parsed payload of a transferAgents function call.
// Valid only if the destination is in the current agent's downstream set and
// differs from the current agent.
type TransferRequest struct {
	Destination string
	Rationale   string
	Context     string
}

// ParseTransferRequest extracts a TransferRequest from decoded function-call
// arguments.
func ParseTransferRequest(args map[string]any) (TransferRequest, error) {
	dest, _ := args["destination_agent"].(string)
	if dest == "" {
		return TransferRequest{}, fmt.Errorf("transfer request missing destination_agent")
	}

	rationale, _ := args["rationale_for_transfer"].(string)
	context, _ := args["conversation_context"].(string)

	return TransferRequest{
		Destination: dest,
		Rationale:   rationale,
		Context:     context,
	}, nil
}
