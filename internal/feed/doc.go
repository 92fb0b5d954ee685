// Package feed provides HTTP fetching and RSS container parsing for the
// campus events feed.
//
// The feed package owns the two external boundaries of the system: fetching
// raw feed text over HTTP (with retry and a bounded timeout) and decoding the
// RSS container into raw entries. It makes no attempt to interpret the free
// text inside an entry; that is the normalizer's job.
package feed
