// Package telephony implements the call-side of the bridge: the media stream
// socket protocol (start/media/mark inbound, media/mark/clear outbound), the
// websocket upgrade for incoming streams, TwiML helpers and outbound call
// placement through the telephony REST API.
package telephony
