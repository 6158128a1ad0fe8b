// Package realtime implements the socket protocol to the conversational AI
// backend: dialing a per-agent connection, the typed client events the relay
// sends (session configuration, audio append, item create, truncate, response
// create) and the server event subset it consumes (audio deltas, completed
// function calls, speech detection, errors).
//
// The Conn interface deliberately hides the underlying websocket so the relay
// can be exercised against in-memory fakes; Dialer produces the production
// implementation.
package realtime
