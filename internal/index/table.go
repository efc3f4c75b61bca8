package index

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/yield-index/internal/model"
	"github.com/rickgao/yield-index/internal/pricing"
)

var (
	// ErrUnknownItem is returned when a query names an item with no calendar.
	ErrUnknownItem = errors.New("unknown item")

	// ErrInvalidInterval is returned when a query interval has begin >= end.
	ErrInvalidInterval = errors.New("invalid interval")
)

// Table is the immutable item -> calendar mapping.
type Table struct {
	BuildID uuid.UUID
	BuiltAt time.Time

	calendars map[model.ItemID]*pricing.Calendar
	periods   int
}

// TableStats summarizes a table.
type TableStats struct {
	BuildID uuid.UUID `json:"build_id"`
	BuiltAt time.Time `json:"built_at"`
	Items   int       `json:"items"`
	Periods int       `json:"periods"`
}

// Stats returns the table summary.
func (t *Table) Stats() TableStats {
	return TableStats{
		BuildID: t.BuildID,
		BuiltAt: t.BuiltAt,
		Items:   len(t.calendars),
		Periods: t.periods,
	}
}

// Len returns the number of items.
func (t *Table) Len() int {
	return len(t.calendars)
}

// Calendar returns the calendar of an item.
func (t *Table) Calendar(item model.ItemID) (*pricing.Calendar, bool) {
	c, ok := t.calendars[item]
	return c, ok
}

// RangeSum returns the proportional price of [begin, end) for an item.
func (t *Table) RangeSum(item model.ItemID, begin, end pricing.Timestamp) (pricing.Price, error) {
	c, err := t.lookup(item, begin, end)
	if err != nil {
		return 0, err
	}
	return c.ProportionalSum(begin, end), nil
}

// RangePeriods returns a copy of the item's periods intersecting [begin, end).
func (t *Table) RangePeriods(item model.ItemID, begin, end pricing.Timestamp) ([]pricing.Period, error) {
	c, err := t.lookup(item, begin, end)
	if err != nil {
		return nil, err
	}
	matched := c.PeriodPrices(begin, end)
	out := make([]pricing.Period, len(matched))
	copy(out, matched)
	return out, nil
}

func (t *Table) lookup(item model.ItemID, begin, end pricing.Timestamp) (*pricing.Calendar, error) {
	if begin >= end {
		return nil, fmt.Errorf("%w: begin %d >= end %d", ErrInvalidInterval, begin, end)
	}
	c, ok := t.calendars[item]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownItem, item)
	}
	return c, nil
}
