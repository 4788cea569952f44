// Package diag defines the diagnostic model shared by the tokenizer, the
// parser and the driver.
//
// Diagnostic is the central record: a Severity, a numeric Code with a stable
// string form (LEX/SYN/IO prefixes), a short Message, the primary
// source.Span and optional Notes and Fixes.
//
// Producers emit through a Reporter so that storage stays decoupled from
// emission. ReportError / ReportWarning return a ReportBuilder that collects
// notes and fixes before Emit. BagReporter stores into a Bag, which supports
// a cap, sorting and deduplication. DedupReporter filters repeats that
// speculative parsing may produce.
//
// Rendering lives in internal/diagfmt; this package does no IO.
package diag
