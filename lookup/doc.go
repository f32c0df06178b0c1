// Package lookup locates an item's callout on the drawing body and recovers
// the numeric value written next to it.
//
// The engine prefers geometric search over page words: it finds the first
// word span matching a token variant, then scans upward from the span
// line-by-line collecting numbers inside a horizontal window, stopping at
// the first barrier line (an unrelated numbered callout or a parenthesized
// position tag). When word geometry is unavailable or no span matches, a
// plain-text fallback searches page lines instead.
//
// All per-run derived state (normalized word tokens, tokenized text lines,
// table exclusion regions) lives in a [PageSet] built once per pipeline
// invocation and discarded with it. The engine itself is stateless and safe
// for concurrent use over a shared PageSet.
package lookup
