// Package ingest fills a model.Document from drawing PDFs.
//
// It is the external collaborator the engine itself refuses to be: all file
// and image handling lives here, so the core packages stay free of I/O.
// Text-layer PDFs go through github.com/ledongthuc/pdf; scanned sheets can
// be recovered with a word-level OCR client via [FromImages].
//
// Table grids are recovered geometrically: the assembled word boxes on each
// page run through [tables.GeometricDetector], so loaded documents carry
// cell grids and table regions alongside the page text.
package ingest
