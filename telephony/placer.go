package telephony

import (
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/hupe1980/callbridge/logging"
)

// PlacerOptions configure the CallPlacer.
type PlacerOptions struct {
	// AllowedNumbers are destinations that bypass the account ownership
	// check. Only add numbers you have permission to call.
	AllowedNumbers []string
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// CallPlacer places outbound calls via the telephony REST API and connects
// the answered call to a media stream endpoint.
type CallPlacer struct {
	client *twilio.RestClient
	from   string
	domain string
	opts   PlacerOptions
}

// NewCallPlacer constructs a placer. from is the caller-id number in E.164
// form; domain is the public hostname where the media stream endpoint is
// served.
func NewCallPlacer(accountSID, authToken, from, domain string, optFns ...func(o *PlacerOptions)) *CallPlacer {
	opts := PlacerOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &CallPlacer{client: client, from: from, domain: domain, opts: opts}
}

// MakeCall places an outbound call to the given number, returning the call
// SID. The destination must pass NumberAllowed first.
func (p *CallPlacer) MakeCall(to string) (string, error) {
	if to == "" {
		return "", fmt.Errorf("no phone number to call")
	}

	allowed, err := p.NumberAllowed(to)
	if err != nil {
		return "", fmt.Errorf("check number %s: %w", to, err)
	}
	if !allowed {
		return "", fmt.Errorf("number %s is not a recognized outgoing number or caller id", to)
	}

	twiml := ConnectTwiML(fmt.Sprintf("wss://%s/media-stream-outbound", p.domain))

	params := &twilioapi.CreateCallParams{}
	params.SetTo(to)
	params.SetFrom(p.from)
	params.SetTwiml(twiml)

	call, err := p.client.Api.CreateCall(params)
	if err != nil {
		return "", fmt.Errorf("create call: %w", err)
	}

	sid := ""
	if call.Sid != nil {
		sid = *call.Sid
	}
	p.opts.Logger.Info("outbound call started", "call_sid", sid, "to", to)

	return sid, nil
}

// NumberAllowed reports whether the destination may be called: either
// explicitly allow-listed, or owned by / verified for this account.
func (p *CallPlacer) NumberAllowed(to string) (bool, error) {
	for _, n := range p.opts.AllowedNumbers {
		if n == to {
			return true, nil
		}
	}

	incomingParams := &twilioapi.ListIncomingPhoneNumberParams{}
	incomingParams.SetPhoneNumber(to)
	incoming, err := p.client.Api.ListIncomingPhoneNumber(incomingParams)
	if err != nil {
		return false, fmt.Errorf("list incoming numbers: %w", err)
	}
	if len(incoming) > 0 {
		return true, nil
	}

	callerIDParams := &twilioapi.ListOutgoingCallerIdParams{}
	callerIDParams.SetPhoneNumber(to)
	callerIDs, err := p.client.Api.ListOutgoingCallerId(callerIDParams)
	if err != nil {
		return false, fmt.Errorf("list caller ids: %w", err)
	}

	return len(callerIDs) > 0, nil
}
