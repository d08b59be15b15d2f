// Package driver runs the lexer over templates: one template resolved through
// a loader, one file on disk, or every template under a directory in parallel.
// Results can be cached on disk between runs.
package driver
