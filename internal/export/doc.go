// Package export writes sequencing results out of process: per-image CSV
// coordinate tables and a SQLite store keyed by run.
package export
