// Package normalize converts raw feed entries into structured events.
//
// The source feed has no reliable schema for dates, times, or locations;
// everything beyond title, link, and category labels is buried in free text.
// The normalizer scans that text with an ordered list of independent pattern
// families, takes the first plausible match, and degrades gracefully: a
// pattern miss yields an absent field, never an error, and an entry is only
// dropped when it lacks even a title. Given the same entries and reference
// instant, normalization is fully deterministic.
package normalize
