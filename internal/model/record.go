package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/rickgao/yield-index/internal/pricing"
)

// ItemID identifies a priced item (e.g. a rental unit).
type ItemID = uint32

// ErrOutOfRange is returned when a source column does not fit its record field.
var ErrOutOfRange = errors.New("value out of range")

// Record is a single row of the ingest stream.
type Record struct {
	ItemID    ItemID
	Timestamp pricing.Timestamp
	Price     pricing.Price
}

// Period returns the calendar period described by the record.
func (r Record) Period() pricing.Period {
	return pricing.Period{Begin: r.Timestamp, Price: r.Price}
}

// RecordFromRow converts scanned database columns into a Record.
// SQL drivers hand back int64, so each column is range-checked.
func RecordFromRow(itemID, timestamp, price int64) (Record, error) {
	if itemID < 0 || itemID > math.MaxUint32 {
		return Record{}, fmt.Errorf("item_id %d: %w", itemID, ErrOutOfRange)
	}
	if timestamp < 0 || timestamp > math.MaxUint32 {
		return Record{}, fmt.Errorf("timestamp %d: %w", timestamp, ErrOutOfRange)
	}
	if price < 0 || price > math.MaxUint16 {
		return Record{}, fmt.Errorf("price %d: %w", price, ErrOutOfRange)
	}
	return Record{
		ItemID:    ItemID(itemID),
		Timestamp: pricing.Timestamp(timestamp),
		Price:     pricing.Price(price),
	}, nil
}
