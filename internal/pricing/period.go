package pricing

// Timestamp is seconds since Unix epoch.
type Timestamp = uint32

// Price is a whole-unit price. Totals saturate at 65535.
type Price = uint16

const (
	// PeriodLength is the length of a period in seconds (one day).
	PeriodLength Timestamp = 60 * 60 * 24

	// DefaultPrice prices any day not covered by a period.
	DefaultPrice Price = 1
)

// Period is a day-long price observation starting at Begin.
type Period struct {
	Begin Timestamp `json:"begin"`
	Price Price     `json:"price"`
}

// End returns the start of the next period. The period covers [Begin, End).
func (p Period) End() Timestamp {
	return p.Begin + PeriodLength
}
