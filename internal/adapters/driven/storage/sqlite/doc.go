// Package sqlite provides the SQLite-backed history journal.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// The journal lives at <project>/.ppm/history.db. LazyHistoryStore defers
// creating the directory and database until the first entry is recorded or read.
package sqlite
