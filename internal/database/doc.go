// Package database opens the connection the price variations are read from.
//
//   - PostgreSQL: pgx connection pool (production)
//   - SQLite: database/sql with the pure-Go modernc driver (local files, tests)
//
// Connections are only needed while the index is built.
package database
