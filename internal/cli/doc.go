// Package cli implements the command-line interface for campus-events.
//
// The cli package provides the Cobra-based CLI with subcommands for each
// event question (upcoming, search, date and range lookups, time-of-day,
// week and weekend views, categories, details) plus ICS export, supporting
// text and JSON output. It wires the feed client, cache, and service
// packages together for one-shot invocations.
package cli
