package source

import (
	"context"

	"github.com/rickgao/yield-index/internal/model"
)

// Slice is an in-memory source.
type Slice []model.Record

// Count returns the number of records.
func (s Slice) Count(context.Context) (int64, error) {
	return int64(len(s)), nil
}

// Stream yields the records in slice order.
func (s Slice) Stream(ctx context.Context, fn func(model.Record) error) error {
	for _, r := range s {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}
