// Package diag defines the diagnostic model shared by the lexer, the loader
// and the driver.
//
// Producers emit through a Reporter so that storage stays decoupled; BagReporter
// collects into a Bag, which supports sorting, deduplication and capping.
// Package diag performs no formatting or IO. Rendering lives in
// internal/diagfmt.
//
// The lexer never fails: its diagnostics are warnings and infos that describe
// how malformed input was degraded, never reasons to reject a template.
package diag
