package telephony

import "fmt"

// AnswerTwiML builds the TwiML response for an incoming call: a short hold
// prompt followed by a media stream connect to the given websocket URL.
func AnswerTwiML(streamURL string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<Response>
    <Say>Please wait</Say>
    <Pause length="1"/>
    <Connect>
        <Stream url="%s"/>
    </Connect>
</Response>`, streamURL)
}

// ConnectTwiML builds the TwiML used when placing an outbound call: connect
// the answered call straight to the media stream.
func ConnectTwiML(streamURL string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?><Response><Connect><Stream url="%s" /></Connect></Response>`, streamURL)
}
