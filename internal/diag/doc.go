// Package diag defines the diagnostic model shared by the lint orchestrator,
// the correlator and the renderers.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity: tri-level enum (Info, Warning, Error) defined in severity.go.
//   - RuleID: identifier of the violated rule; empty for parse failures.
//   - Message: human oriented text.
//   - Line/Column: 1-based start position in the evaluated text.
//   - EndLine/EndColumn: 1-based end position, 0 when absent. End() applies
//     the fallback of one line and one column beyond the start.
//
// Positions refer to the text the lint pass evaluated, which is the record's
// script with tabs expanded to four spaces. Result keeps that text next to
// the diagnostics so renderers never go back to the original record.
//
// # Emitting diagnostics
//
// Producers use a Reporter to decouple emission from storage. BagReporter
// aggregates into a Bag, which supports sorting and deduplication;
// DedupReporter drops repeated findings before they reach the bag.
//
// Package diag does not perform any formatting beyond the short one-line
// form. Excerpt rendering lives in internal/diagfmt.
package diag
