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
	// ErrOutOfOrder is returned in strict mode when a record starts before the
	// previous period of the same item ends.
	ErrOutOfOrder = errors.New("record out of order")

	// ErrBuilderFinished is returned by Append after Finish.
	ErrBuilderFinished = errors.New("builder already finished")
)

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithTrustedOrder disables the per-item ordering check. Records are then
// appended exactly as they arrive and an unordered stream yields wrong prices.
func WithTrustedOrder() BuilderOption {
	return func(b *Builder) {
		b.strict = false
	}
}

// Builder accumulates records into calendars. It is not safe for concurrent use.
type Builder struct {
	strict    bool
	calendars map[model.ItemID]*pricing.Calendar
	periods   int
	finished  bool
}

// NewBuilder creates a builder. Ordering is checked per item unless
// WithTrustedOrder is given.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		strict:    true,
		calendars: make(map[model.ItemID]*pricing.Calendar),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Append adds a record to its item's calendar, creating the calendar on first sight.
func (b *Builder) Append(r model.Record) error {
	if b.finished {
		return ErrBuilderFinished
	}

	c, ok := b.calendars[r.ItemID]
	if !ok {
		c = pricing.NewCalendar()
		b.calendars[r.ItemID] = c
	}

	if b.strict {
		if last, ok := c.Last(); ok && r.Timestamp < last.End() {
			return fmt.Errorf("%w: item %d timestamp %d before end of period %d",
				ErrOutOfOrder, r.ItemID, r.Timestamp, last.Begin)
		}
	}

	c.Add(r.Period())
	b.periods++
	return nil
}

// Len returns the number of items seen so far.
func (b *Builder) Len() int {
	return len(b.calendars)
}

// Finish seals the builder and returns the table. Further appends fail.
func (b *Builder) Finish() *Table {
	b.finished = true
	t := &Table{
		BuildID:   uuid.New(),
		BuiltAt:   time.Now().UTC(),
		calendars: b.calendars,
		periods:   b.periods,
	}
	b.calendars = nil
	return t
}
