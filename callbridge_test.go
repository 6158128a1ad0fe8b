package callbridge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/callbridge/agent"
	"github.com/hupe1980/callbridge/realtime"
	"github.com/hupe1980/callbridge/relay"
	"github.com/hupe1980/callbridge/tool"
)

type stubDialer struct{}

func (stubDialer) Dial(context.Context, string) (realtime.Conn, error) {
	return nil, assert.AnError
}

var _ relay.Dialer = stubDialer{}

func testRegistry(t *testing.T) *agent.Registry {
	t.Helper()

	r, err := agent.NewRegistry(agent.Spec{
		Name:         "main_agent",
		Model:        "test-model",
		Instructions: "You are the main agent.",
	})
	require.NoError(t, err)
	return r
}

func TestNew(t *testing.T) {
	bridge, err := New(testRegistry(t), tool.NewRegistry(), func(o *Options) {
		o.Dialer = stubDialer{}
	})
	require.NoError(t, err)
	assert.NotNil(t, bridge)

	bridge.Close()
}

func TestNew_UnknownInitialAgent(t *testing.T) {
	_, err := New(testRegistry(t), tool.NewRegistry(), func(o *Options) {
		o.Dialer = stubDialer{}
		o.InitialAgent = "ghost"
	})
	assert.ErrorContains(t, err, "not found")
}

func TestNew_UndeclaredToolFails(t *testing.T) {
	r, err := agent.NewRegistry(agent.Spec{
		Name:         "main_agent",
		Model:        "test-model",
		Instructions: "You are the main agent.",
		ToolNames:    []string{"missing"},
	})
	require.NoError(t, err)

	_, err = New(r, tool.NewRegistry(), func(o *Options) {
		o.Dialer = stubDialer{}
	})
	assert.ErrorContains(t, err, "unregistered tool")
}

func TestNormalizeDomain(t *testing.T) {
	assert.Equal(t, "example.ngrok.app", NormalizeDomain("https://example.ngrok.app/"))
	assert.Equal(t, "example.ngrok.app", NormalizeDomain("http://example.ngrok.app"))
	assert.Equal(t, "example.ngrok.app", NormalizeDomain("example.ngrok.app//"))
	assert.Equal(t, "", NormalizeDomain(""))
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DOMAIN", "https://example.ngrok.app/")
	t.Setenv("PORT", "8080")
	t.Setenv("OUTBOUND_PORT", "bogus")
	t.Setenv("AUDIT_DIR", "")
	t.Setenv("TWILIO_ACCOUNT_SID", "")
	t.Setenv("TWILIO_AUTH_TOKEN", "")
	t.Setenv("PHONE_NUMBER_FROM", "")

	cfg := ConfigFromEnv()

	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "example.ngrok.app", cfg.Domain)
	assert.Equal(t, 8080, cfg.InboundPort)
	assert.Equal(t, 6060, cfg.OutboundPort, "invalid port falls back to default")
	assert.Equal(t, ".", cfg.AuditDir)

	assert.NoError(t, cfg.ValidateInbound())
	assert.ErrorContains(t, cfg.ValidateOutbound(), "TWILIO_ACCOUNT_SID")
}

func TestConfig_ValidateInbound(t *testing.T) {
	cfg := Config{}
	assert.ErrorContains(t, cfg.ValidateInbound(), "OPENAI_API_KEY")

	cfg.OpenAIAPIKey = "sk-test"
	assert.NoError(t, cfg.ValidateInbound())
}
