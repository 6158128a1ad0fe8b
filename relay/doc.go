// Package relay runs one live call: two concurrent pumps moving audio and
// events between the telephony stream and the active backend connection, the
// barge-in interruption controller, the tool dispatch bridge and the live
// agent-handoff orchestrator.
//
// A Session owns all per-call mutable state. At most one backend connection
// is active at any instant; during a handoff an old (draining) and a new
// (initializing) connection transiently coexist, distinguished by a
// generation counter so a pump blocked on the old connection restarts its
// read loop instead of treating the closure as fatal.
package relay
