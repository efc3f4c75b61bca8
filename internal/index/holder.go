package index

import (
	"errors"
	"sync/atomic"
)

var (
	// ErrNotPublished is returned when the table is read before publication.
	ErrNotPublished = errors.New("index not published")

	// ErrAlreadyPublished is returned by a second Publish.
	ErrAlreadyPublished = errors.New("index already published")
)

// Holder is a one-shot publication slot for a Table.
// The zero value is ready to use.
type Holder struct {
	table atomic.Pointer[Table]
}

// Publish stores t. Only the first call succeeds, even under concurrency.
func (h *Holder) Publish(t *Table) error {
	if t == nil {
		return errors.New("publish nil table")
	}
	if !h.table.CompareAndSwap(nil, t) {
		return ErrAlreadyPublished
	}
	return nil
}

// Current returns the published table.
func (h *Holder) Current() (*Table, error) {
	t := h.table.Load()
	if t == nil {
		return nil, ErrNotPublished
	}
	return t, nil
}

// MustCurrent returns the published table and panics if there is none.
func (h *Holder) MustCurrent() *Table {
	t, err := h.Current()
	if err != nil {
		panic(err)
	}
	return t
}

// Published reports whether a table has been published.
func (h *Holder) Published() bool {
	return h.table.Load() != nil
}
