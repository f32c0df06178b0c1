// Package tables normalizes raw BOM table grids into canonical items.
//
// The normalizer works in two modes. Grid mode consumes the cell grids an
// extraction layer detected on each page: it locates a header row by keyword
// (POS, DESCRIPTION, a measurement column, optionally THICKNESS and a
// quantity column), then parses the data rows below it. Line mode is the
// fallback when no grid produced any rows: plain text lines shaped like
// "<pos> <description...> <length>" are accepted as rows and everything else
// stays drawing body text.
//
// Keyword sets live in [NormalizerConfig] so localized headers can be
// supported by configuration. A table whose header never qualifies yields
// zero rows and a warning; it never aborts the run.
//
// [GeometricDetector] produces the grids themselves when the extraction
// layer only delivers positioned words, by clustering word boxes into
// aligned rows and columns.
package tables
