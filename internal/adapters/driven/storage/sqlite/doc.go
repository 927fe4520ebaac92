// Package sqlite provides a SQLite-backed local cache of fetched activities.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. The cache is write-through:
// every successful fetch upserts its activities, so past runs remain inspectable
// offline without another round-trip to the provider.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.cadence/data/cadence.db
package sqlite
