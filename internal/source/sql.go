package source

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rickgao/yield-index/internal/config"
	"github.com/rickgao/yield-index/internal/model"
)

// SQL streams records from a database/sql connection.
type SQL struct {
	db         *sql.DB
	query      string
	countQuery string
}

// NewSQL creates a database/sql source. epoch renders the driver's
// date-to-seconds expression; SQLiteEpoch suits the bundled SQLite driver.
func NewSQL(db *sql.DB, cfg config.SourceConfig, epoch Dialect) *SQL {
	query, countQuery := Queries(cfg, epoch)
	return &SQL{
		db:         db,
		query:      query,
		countQuery: countQuery,
	}
}

// Count returns the number of rows in the source table.
func (s *SQL) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, s.countQuery).Scan(&n); err != nil {
		return 0, fmt.Errorf("count price variations: %w", err)
	}
	return n, nil
}

// Stream reads all rows in query order.
func (s *SQL) Stream(ctx context.Context, fn func(model.Record) error) error {
	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return fmt.Errorf("query price variations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID, ts, price int64
		if err := rows.Scan(&itemID, &ts, &price); err != nil {
			return fmt.Errorf("scan price variation: %w", err)
		}
		r, err := model.RecordFromRow(itemID, ts, price)
		if err != nil {
			return fmt.Errorf("stream price variations: %w", err)
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("stream price variations: %w", err)
	}
	return nil
}
