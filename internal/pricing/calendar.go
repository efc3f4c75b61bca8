package pricing

import (
	"math"
	"slices"
)

// Calendar holds the periods of a single item.
//
// Periods must be appended in ascending Begin order and must not overlap.
// Gaps are allowed. The calendar does not check either condition; a calendar
// that violates them returns wrong results rather than failing.
type Calendar struct {
	periods []Period
}

// NewCalendar creates a calendar from periods that are already ordered.
func NewCalendar(periods ...Period) *Calendar {
	return &Calendar{periods: periods}
}

// Add appends a period.
func (c *Calendar) Add(p Period) {
	c.periods = append(c.periods, p)
}

// Len returns the number of periods.
func (c *Calendar) Len() int {
	return len(c.periods)
}

// Periods returns the underlying periods. Callers must not modify the result.
func (c *Calendar) Periods() []Period {
	return c.periods
}

// Last returns the most recently added period.
func (c *Calendar) Last() (Period, bool) {
	if len(c.periods) == 0 {
		return Period{}, false
	}
	return c.periods[len(c.periods)-1], true
}

// comparePeriod orders a period relative to the instant at:
//
//	p.Begin <  at, p.End()-1 <  at  -> -1 (entirely before at)
//	p.Begin <  at, p.End()-1 >= at  ->  0 (straddles at)
//	p.Begin == at                   ->  0
//	p.Begin >  at                   -> +1 (after at)
func comparePeriod(p Period, at Timestamp) int {
	switch {
	case p.Begin < at:
		if p.End()-1 < at {
			return -1
		}
		return 0
	case p.Begin == at:
		return 0
	default:
		return 1
	}
}

// PeriodPrices returns the contiguous run of periods intersecting [begin, end).
//
// The result aliases the calendar's storage. It is empty when no period
// intersects the interval. begin must be less than end.
func (c *Calendar) PeriodPrices(begin, end Timestamp) []Period {
	// Either the period straddling begin, or the first one after it.
	start, _ := slices.BinarySearchFunc(c.periods, begin, comparePeriod)

	rest := c.periods[start:]
	n := 0
	for n < len(rest) && rest[n].Begin < end {
		n++
	}
	return rest[:n:n]
}

// ProportionalSum returns the price of [begin, end).
//
// Periods partially inside the interval contribute in proportion to their
// overlap. Whole-day gaps inside the covered span are priced at DefaultPrice.
// The result is rounded half away from zero and clamped to the Price range.
func (c *Calendar) ProportionalSum(begin, end Timestamp) Price {
	matched := c.PeriodPrices(begin, end)

	var sum uint64
	for _, p := range matched {
		sum += uint64(p.Price)
	}

	const length = float32(PeriodLength)

	// Parts of the first and last period lying outside the interval.
	var discard float32
	spanBegin, spanEnd := begin, end
	if len(matched) > 0 {
		first, last := matched[0], matched[len(matched)-1]
		discard = float32(float32(saturatingSub(begin, first.Begin))/length) * float32(first.Price)
		discard += float32(float32(saturatingSub(last.End(), end))/length) * float32(last.Price)

		spanBegin = min(begin, first.Begin)
		spanEnd = max(end, last.End())
	}

	part := float32(sum) - discard
	defaultPeriods := float32(spanEnd-spanBegin)/length - float32(len(matched))

	total := part + float32(defaultPeriods*float32(DefaultPrice))
	return clampPrice(math.Round(float64(total)))
}

func saturatingSub(a, b Timestamp) Timestamp {
	if a < b {
		return 0
	}
	return a - b
}

func clampPrice(v float64) Price {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= math.MaxUint16:
		return math.MaxUint16
	default:
		return Price(v)
	}
}
