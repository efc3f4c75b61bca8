// Package source streams price variation records in ascending date order.
//
// Sources:
//   - Postgres: pgx pool over a price_variations-style table
//   - SQL: any database/sql connection (SQLite files, tests)
//   - Slice: in-memory records
//
// Every source must yield records non-decreasing by timestamp across the
// whole stream; the index builder relies on it to keep calendars ordered.
package source
