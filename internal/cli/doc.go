// Package cli wires the crawl → extract → merge → calendar pipeline
// behind a cobra command and maps each failure class to its diagnostic
// severity.
package cli
