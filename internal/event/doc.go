// Package event provides the core types for normalized campus events.
//
// The event package defines the Event record produced by the normalizer, the
// calendar Date and ClockTime value types used for extracted date and time
// signals, and the Snapshot that holds one fetch cycle's full event set. Each
// event is assigned a deterministic SHA1-based ID generated from its source
// link (or from its title and description when no link exists), enabling
// reliable deduplication and detail lookup across refreshes.
package event
