// Package pricing implements the per-item price calendar.
//
// A calendar is an ordered run of day-long periods, each carrying one price.
// Days without an explicit period are priced at DefaultPrice.
//
// Conventions:
//   - Timestamps: uint32 seconds since Unix epoch (UTC)
//   - Prices: uint16 whole units
//   - Intervals: half-open, [begin, end)
package pricing
