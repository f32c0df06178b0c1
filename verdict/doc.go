// Package verdict turns lookup outcomes into per-row verdicts.
//
// The comparator is deliberately pure: duplicate-position analysis runs
// first over the complete ordered item list, then each row is evaluated
// independently from its item, its lookup outcomes, and its duplicate flag.
// Failure reasons are emitted in a fixed priority order (duplicate position,
// callout missing, length, thickness) so reports stay stable across runs.
package verdict
