// Package audit provides a small append-only JSON-line log used by tools that
// must leave a durable record of what was discussed on a call (recruiter
// requests, negotiation outcomes). One file per event type per day; entries
// are timestamped and never rewritten.
package audit
