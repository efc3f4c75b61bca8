package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/yield-index/internal/config"
	"github.com/rickgao/yield-index/internal/model"
)

// Postgres streams records from PostgreSQL.
type Postgres struct {
	pool       *pgxpool.Pool
	query      string
	countQuery string
}

// NewPostgres creates a PostgreSQL source.
func NewPostgres(pool *pgxpool.Pool, cfg config.SourceConfig) *Postgres {
	query, countQuery := Queries(cfg, PostgresEpoch)
	return &Postgres{
		pool:       pool,
		query:      query,
		countQuery: countQuery,
	}
}

// Count returns the number of rows in the source table.
func (s *Postgres) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, s.countQuery).Scan(&n); err != nil {
		return 0, fmt.Errorf("count price variations: %w", err)
	}
	return n, nil
}

// Stream reads all rows on a single connection with the session pinned to UTC.
func (s *Postgres) Stream(ctx context.Context, fn func(model.Record) error) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	// Date columns without a zone are interpreted in the session zone.
	if _, err := conn.Exec(ctx, "SET TIME ZONE 'UTC'"); err != nil {
		return fmt.Errorf("set utc time zone: %w", err)
	}

	rows, err := conn.Query(ctx, s.query)
	if err != nil {
		return fmt.Errorf("query price variations: %w", err)
	}
	defer rows.Close()

	var itemID, ts, price int64
	_, err = pgx.ForEachRow(rows, []any{&itemID, &ts, &price}, func() error {
		r, err := model.RecordFromRow(itemID, ts, price)
		if err != nil {
			return err
		}
		return fn(r)
	})
	if err != nil {
		return fmt.Errorf("stream price variations: %w", err)
	}
	return nil
}
