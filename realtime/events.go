package realtime

import (
	"encoding/json"

	"github.com/hupe1980/callbridge/tool"
)

// Server event types the relay reacts to. Anything else is either logged via
// the diagnostic allow-list or ignored.
const (
	TypeAudioDelta       = "response.audio.delta"
	TypeFunctionCallDone = "response.function_call_arguments.done"
	TypeSpeechStarted    = "input_audio_buffer.speech_started"
	TypeSessionCreated   = "session.created"
	TypeError            = "error"
)

// ServerEvent is the decoded form of one backend event. Only the fields
// relevant to the relay are typed; Raw preserves the full payload for
// diagnostic logging.
type ServerEvent struct {
	Type      string       `json:"type"`
	Delta     string       `json:"delta,omitempty"`
	ItemID    string       `json:"item_id,omitempty"`
	Name      string       `json:"name,omitempty"`
	CallID    string       `json:"call_id,omitempty"`
	Arguments string       `json:"arguments,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// ErrorDetail carries the backend's error payload.
type ErrorDetail struct {
	Type    string `json:"type,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// ParseServerEvent decodes a raw backend frame.
func ParseServerEvent(data []byte) (*ServerEvent, error) {
	var ev ServerEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	ev.Raw = json.RawMessage(data)
	return &ev, nil
}

// SessionConfig is the payload of a session.update: the full realtime session
// configuration for one agent's turn of the call.
type SessionConfig struct {
	TurnDetection           map[string]any `json:"turn_detection,omitempty"`
	InputAudioFormat        string         `json:"input_audio_format,omitempty"`
	OutputAudioFormat       string         `json:"output_audio_format,omitempty"`
	Voice                   string         `json:"voice,omitempty"`
	Instructions            string         `json:"instructions,omitempty"`
	Modalities              []string       `json:"modalities,omitempty"`
	Temperature             float64        `json:"temperature,omitempty"`
	InputAudioTranscription map[string]any `json:"input_audio_transcription,omitempty"`
	ToolChoice              string         `json:"tool_choice,omitempty"`
	Tools                   []tool.Schema  `json:"tools,omitempty"`
}

type sessionUpdateEvent struct {
	Type    string        `json:"type"`
	Session SessionConfig `json:"session"`
}

// SessionUpdate builds a session.update client event.
func SessionUpdate(cfg SessionConfig) any {
	return sessionUpdateEvent{Type: "session.update", Session: cfg}
}

type audioAppendEvent struct {
	Type  string `json:"type"`
	Audio string `json:"audio"`
}

// AudioAppend builds an input_audio_buffer.append event carrying one base64
// audio frame.
func AudioAppend(payload string) any {
	return audioAppendEvent{Type: "input_audio_buffer.append", Audio: payload}
}

// ContentPart is one element of a conversation item's content list.
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Item is the inner object of a conversation.item.create event; either a
// role-based message or a function_call_output.
type Item struct {
	Type    string        `json:"type"`
	Role    string        `json:"role,omitempty"`
	Content []ContentPart `json:"content,omitempty"`
	Output  string        `json:"output,omitempty"`
	CallID  string        `json:"call_id,omitempty"`
}

type itemCreateEvent struct {
	Type string `json:"type"`
	Item Item   `json:"item"`
}

// MessageItem builds a conversation.item.create carrying a single text
// message with the given role.
func MessageItem(role, text string) any {
	return itemCreateEvent{
		Type: "conversation.item.create",
		Item: Item{
			Type:    "message",
			Role:    role,
			Content: []ContentPart{{Type: "input_text", Text: text}},
		},
	}
}

// FunctionCallOutput builds a conversation.item.create carrying a tool result
// correlated to the originating call id.
func FunctionCallOutput(callID, output string) any {
	return itemCreateEvent{
		Type: "conversation.item.create",
		Item: Item{
			Type:   "function_call_output",
			Output: output,
			CallID: callID,
		},
	}
}

type truncateEvent struct {
	Type         string `json:"type"`
	ItemID       string `json:"item_id"`
	ContentIndex int    `json:"content_index"`
	AudioEndMS   int    `json:"audio_end_ms"`
}

// Truncate builds a conversation.item.truncate correcting the backend's
// record of spoken audio to what the caller actually heard.
func Truncate(itemID string, audioEndMS int) any {
	return truncateEvent{
		Type:         "conversation.item.truncate",
		ItemID:       itemID,
		ContentIndex: 0,
		AudioEndMS:   audioEndMS,
	}
}

type responseCreateEvent struct {
	Type string `json:"type"`
}

// ResponseCreate builds a response.create, resuming generation on the
// backend.
func ResponseCreate() any {
	return responseCreateEvent{Type: "response.create"}
}
