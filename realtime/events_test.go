package realtime

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/callbridge/tool"
)

// -------------------- Server Event Tests --------------------

func TestParseServerEvent(t *testing.T) {
	raw := []byte(`{
		"type": "response.function_call_arguments.done",
		"name": "scheduleMeeting",
		"call_id": "call_1",
		"arguments": "{\"dateTime\":\"2026-09-03T10:00:00Z\"}"
	}`)

	ev, err := ParseServerEvent(raw)
	require.NoError(t, err)

	assert.Equal(t, TypeFunctionCallDone, ev.Type)
	assert.Equal(t, "scheduleMeeting", ev.Name)
	assert.Equal(t, "call_1", ev.CallID)
	assert.JSONEq(t, string(raw), string(ev.Raw))
}

func TestParseServerEvent_ErrorPayload(t *testing.T) {
	raw := []byte(`{"type":"error","error":{"type":"invalid_request_error","code":"bad","message":"nope"}}`)

	ev, err := ParseServerEvent(raw)
	require.NoError(t, err)
	require.NotNil(t, ev.Error)
	assert.Equal(t, "bad", ev.Error.Code)
	assert.Equal(t, "nope", ev.Error.Message)
}

func TestParseServerEvent_Malformed(t *testing.T) {
	_, err := ParseServerEvent([]byte(`{not json`))
	assert.Error(t, err)
}

// -------------------- Client Event Builder Tests --------------------

func roundTrip(t *testing.T, ev any) map[string]any {
	t.Helper()

	data, err := json.Marshal(ev)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestTruncate(t *testing.T) {
	m := roundTrip(t, Truncate("item_1", 250))

	assert.Equal(t, "conversation.item.truncate", m["type"])
	assert.Equal(t, "item_1", m["item_id"])
	assert.Equal(t, float64(250), m["audio_end_ms"])
	assert.Equal(t, float64(0), m["content_index"])
}

func TestAudioAppend(t *testing.T) {
	m := roundTrip(t, AudioAppend("b64payload"))

	assert.Equal(t, "input_audio_buffer.append", m["type"])
	assert.Equal(t, "b64payload", m["audio"])
}

func TestMessageItem(t *testing.T) {
	m := roundTrip(t, MessageItem("system", "Be helpful."))

	assert.Equal(t, "conversation.item.create", m["type"])
	item := m["item"].(map[string]any)
	assert.Equal(t, "message", item["type"])
	assert.Equal(t, "system", item["role"])

	content := item["content"].([]any)[0].(map[string]any)
	assert.Equal(t, "input_text", content["type"])
	assert.Equal(t, "Be helpful.", content["text"])
}

func TestFunctionCallOutput(t *testing.T) {
	m := roundTrip(t, FunctionCallOutput("call_1", `{"ok":true}`))

	item := m["item"].(map[string]any)
	assert.Equal(t, "function_call_output", item["type"])
	assert.Equal(t, "call_1", item["call_id"])
	assert.Equal(t, `{"ok":true}`, item["output"])
}

// -------------------- Initialization Tests --------------------

type captureConn struct {
	sent []any
}

func (c *captureConn) ReadEvent(context.Context) (*ServerEvent, error) { return nil, nil }
func (c *captureConn) Send(_ context.Context, event any) error {
	c.sent = append(c.sent, event)
	return nil
}
func (c *captureConn) Close() error { return nil }

func sentType(t *testing.T, ev any) string {
	t.Helper()
	return roundTrip(t, ev)["type"].(string)
}

func TestInitialize(t *testing.T) {
	conn := &captureConn{}

	err := Initialize(context.Background(), conn, InitParams{
		Voice:        "alloy",
		Instructions: "You are the scheduler.",
		Temperature:  0.8,
		Tools:        []tool.Schema{{Type: "function", Name: "scheduleMeeting"}},
	})
	require.NoError(t, err)

	require.Len(t, conn.sent, 3)
	assert.Equal(t, "session.update", sentType(t, conn.sent[0]))
	assert.Equal(t, "conversation.item.create", sentType(t, conn.sent[1]))
	assert.Equal(t, "response.create", sentType(t, conn.sent[2]))

	update := roundTrip(t, conn.sent[0])
	session := update["session"].(map[string]any)
	assert.Equal(t, "auto", session["tool_choice"])
	assert.Equal(t, "alloy", session["voice"])

	tools := session["tools"].([]any)
	require.Len(t, tools, 1)
	assert.Equal(t, "scheduleMeeting", tools[0].(map[string]any)["name"])
}

func TestInitialize_WithPendingContext(t *testing.T) {
	conn := &captureConn{}

	err := Initialize(context.Background(), conn, InitParams{
		Instructions:   "You are the scheduler.",
		PendingContext: "Hi, I was transferred here because: booking. Context: caller is Alex",
	})
	require.NoError(t, err)

	require.Len(t, conn.sent, 5)
	assert.Equal(t, "conversation.item.create", sentType(t, conn.sent[3]))
	assert.Equal(t, "response.create", sentType(t, conn.sent[4]))

	item := roundTrip(t, conn.sent[3])["item"].(map[string]any)
	assert.Equal(t, "user", item["role"])

	text := item["content"].([]any)[0].(map[string]any)["text"].(string)
	assert.Contains(t, text, "caller is Alex")
}
