package callbridge

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the environment-driven settings for the bundled services.
type Config struct {
	// OpenAIAPIKey authenticates backend websocket connections.
	OpenAIAPIKey string
	// TwilioAccountSID and TwilioAuthToken authenticate outbound REST calls.
	TwilioAccountSID string
	TwilioAuthToken  string
	// PhoneNumberFrom is the caller id for outbound calls.
	PhoneNumberFrom string
	// Domain is the publicly reachable hostname used to build stream URLs.
	// Any scheme prefix and trailing slashes are stripped.
	Domain string
	// InboundPort and OutboundPort are the listen ports of the two services.
	InboundPort  int
	OutboundPort int
	// AuditDir is where call outcome records are appended.
	AuditDir string
}

// ConfigFromEnv reads the configuration from environment variables, applying
// defaults for ports and the audit directory.
func ConfigFromEnv() Config {
	cfg := Config{
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		PhoneNumberFrom:  os.Getenv("PHONE_NUMBER_FROM"),
		Domain:           NormalizeDomain(os.Getenv("DOMAIN")),
		InboundPort:      portFromEnv("PORT", 5050),
		OutboundPort:     portFromEnv("OUTBOUND_PORT", 6060),
		AuditDir:         os.Getenv("AUDIT_DIR"),
	}

	if cfg.AuditDir == "" {
		cfg.AuditDir = "."
	}

	return cfg
}

// NormalizeDomain strips the scheme and any trailing slashes so the value can
// be embedded in wss:// stream URLs.
func NormalizeDomain(domain string) string {
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")

	return strings.TrimRight(domain, "/")
}

// ValidateInbound checks the settings required by the inbound call service.
func (c Config) ValidateInbound() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("missing OPENAI_API_KEY")
	}

	return nil
}

// ValidateOutbound checks the settings required by the outbound call service.
func (c Config) ValidateOutbound() error {
	if err := c.ValidateInbound(); err != nil {
		return err
	}

	var missing []string

	if c.TwilioAccountSID == "" {
		missing = append(missing, "TWILIO_ACCOUNT_SID")
	}

	if c.TwilioAuthToken == "" {
		missing = append(missing, "TWILIO_AUTH_TOKEN")
	}

	if c.PhoneNumberFrom == "" {
		missing = append(missing, "PHONE_NUMBER_FROM")
	}

	if c.Domain == "" {
		missing = append(missing, "DOMAIN")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

func portFromEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	port, err := strconv.Atoi(raw)
	if err != nil || port <= 0 {
		return fallback
	}

	return port
}
