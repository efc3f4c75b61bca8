// Package server exposes the published index over HTTP.
//
// Endpoints:
//   - GET /health
//   - GET /version
//   - GET /items/{itemID}/price?begin=&end=
//   - GET /items/{itemID}/periods?begin=&end=
//
// begin and end are Unix seconds or RFC 3339 times. RFC 3339 input keeps its
// wall clock, read as UTC and truncated to the minute.
package server
