package telephony

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Say     string   `xml:"Say"`
	Connect struct {
		Stream struct {
			URL string `xml:"url,attr"`
		} `xml:"Stream"`
	} `xml:"Connect"`
}

func TestAnswerTwiML(t *testing.T) {
	out := AnswerTwiML("wss://example.com/media-stream")

	var resp twimlResponse
	require.NoError(t, xml.Unmarshal([]byte(out), &resp))

	assert.Equal(t, "Please wait", resp.Say)
	assert.Equal(t, "wss://example.com/media-stream", resp.Connect.Stream.URL)
}

func TestConnectTwiML(t *testing.T) {
	out := ConnectTwiML("wss://example.com/media-stream-outbound")

	var resp twimlResponse
	require.NoError(t, xml.Unmarshal([]byte(out), &resp))

	assert.Empty(t, resp.Say)
	assert.Equal(t, "wss://example.com/media-stream-outbound", resp.Connect.Stream.URL)
}
