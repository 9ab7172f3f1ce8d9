// Package grid implements the data-grid engine: per-column filter controls,
// single-column sorting, single-cell inline editing, and the translation of
// the aggregate filter/sort state into a Query consumed by a paginated
// listing endpoint.
//
// The engine performs no I/O. A host (terminal UI, CLI command, test)
// supplies rows through Engine.SetData, receives queries through the
// QueryFunc option, and receives committed edits through the EditFunc
// option. The engine is owned by a single event loop and takes no locks.
package grid
