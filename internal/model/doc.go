// Package model defines the ingest record shared by sources and the index builder.
//
// Conventions:
//   - Item IDs: uint32
//   - Timestamps: uint32 seconds since Unix epoch (UTC), start of the priced day
//   - Prices: uint16 whole units
package model
