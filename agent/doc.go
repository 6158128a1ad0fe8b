// Package agent holds the immutable agent descriptors and the transfer router
// for a callbridge deployment. The package focuses on three concerns:
//
//  1. Static agent configuration (Spec): instructions, voice/audio settings,
//     declared tools and the downstream transfer whitelist
//  2. Registry construction: per-agent transfer capability synthesis whose
//     destination enum is exactly the agent's downstream set
//  3. Transfer validation: a pure check over immutable data used by the
//     handoff orchestrator
//
// The registry is built once at process start and is read-only afterwards; no
// synchronization is needed to share it across call sessions. Tool
// implementations live in the tool package; specs reference them by name and
// the two are joined at session-initialization time.
package agent
