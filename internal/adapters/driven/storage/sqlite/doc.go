// Package sqlite implements the corpus DocumentStore on SQLite.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Documents, chunks and chunk vectors share one database so
// an in-process vector index can be rebuilt from it at startup.
//
// # Schema
//
// The schema is managed through versioned migrations in migrations/, each a
// pair of NNN_name.up.sql and NNN_name.down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.fsquery/data/corpus.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. WAL mode lets readers proceed
// while a single ingestion writes.
package sqlite
