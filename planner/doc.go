// Package planner implements the offline negotiation planning workflow: it
// loads transcripts of previous calls, combines them with the current offer
// and market data, and asks a chat model for a call summary, a market
// position analysis and a negotiation strategy.
//
// The Model interface abstracts the chat backend; the openai and anthropic
// subpackages provide adapters over the official SDKs.
package planner
