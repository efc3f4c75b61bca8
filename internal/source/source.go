package source

import (
	"context"
	"fmt"

	"github.com/rickgao/yield-index/internal/config"
	"github.com/rickgao/yield-index/internal/model"
)

// Source is an ordered stream of price records.
type Source interface {
	// Count returns the number of records Stream will yield, for progress reporting.
	Count(ctx context.Context) (int64, error)

	// Stream calls fn for every record in order. An error from fn stops the stream
	// and is returned.
	Stream(ctx context.Context, fn func(model.Record) error) error
}

// Dialect renders the epoch-seconds expression for a date column.
type Dialect func(column string) string

// PostgresEpoch converts a date/timestamp column to Unix seconds in PostgreSQL.
func PostgresEpoch(column string) string {
	return fmt.Sprintf("EXTRACT(EPOCH FROM %s)::bigint", column)
}

// SQLiteEpoch converts a date/datetime text column to Unix seconds in SQLite.
func SQLiteEpoch(column string) string {
	return fmt.Sprintf("CAST(strftime('%%s', %s) AS INTEGER)", column)
}

// Queries returns the stream and count statements for cfg.
// Custom queries in cfg take precedence over the generated ones.
func Queries(cfg config.SourceConfig, epoch Dialect) (query, countQuery string) {
	query = cfg.Query
	if query == "" {
		query = fmt.Sprintf(
			"SELECT %s, %s, %s FROM %s ORDER BY %s ASC",
			cfg.ItemColumn,
			epoch(cfg.DateColumn),
			cfg.PriceColumn,
			cfg.Table,
			cfg.DateColumn,
		)
	}

	countQuery = cfg.CountQuery
	if countQuery == "" {
		if cfg.Query != "" {
			countQuery = fmt.Sprintf("SELECT COUNT(*) FROM (%s) AS q", cfg.Query)
		} else {
			countQuery = fmt.Sprintf("SELECT COUNT(*) FROM %s", cfg.Table)
		}
	}

	return query, countQuery
}
