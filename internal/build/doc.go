// Package build loads a Source into an index.Table.
//
// The reader goroutine drains the source into fixed-size batches and hands
// them over a bounded channel to the builder goroutine, which appends every
// record to its item's calendar. Either side failing cancels the other.
//
// Progress is logged every Options.ProgressEvery records, and process memory
// is logged before and after the build.
package build
