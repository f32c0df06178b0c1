// Package model defines the data types shared across the verification
// pipeline.
//
// The types fall into three groups:
//
//   - Inputs: [Document], [Word], and [RawTable] describe the extracted
//     drawing primitives the engine consumes. The engine never reads files
//     or images itself; an external layer (or the ingest package) fills a
//     Document before a run.
//
//   - Canonical rows: [Item] is one normalized BOM table row with its
//     position id, description, acceptable lengths, and optional thickness
//     and quantity.
//
//   - Outputs: [Result] is the per-row verdict, and [Summary] aggregates a
//     result sequence.
//
// # Geometry
//
// [Rect] is the single geometric primitive. Coordinates use a top-left
// origin with Top and Bottom increasing downward, matching the coordinate
// space word extractors report. Code that scans "upward" on the page moves
// toward smaller Top values.
//
// # Ownership
//
// All values are created fresh per analysis run. The normalizer writes
// Items, the comparator writes Results, and neither is mutated afterwards.
package model
