// Package match turns a BOM item into the ordered set of token sequences its
// drawing callout might take.
//
// Drawing callouts restate table rows with considerable freedom: the position
// id may lead or trail, the description may be truncated, and a quantity may
// be appended in split, fused, or abbreviated unit form. [Variants] generates
// one hypothesis per plausible phrasing, most specific first, so a caller
// that stops at the first hit prefers precise matches over permissive ones.
//
// All matching is done over normalized tokens: NFKC-folded, lowercased, and
// stripped to alphanumerics plus ". + -". Generation is deterministic and
// order-stable for identical input.
package match
