// Package index maps items to their price calendars.
//
// A Table is built once by a Builder from a time-ordered record stream and is
// read-only afterwards, so any number of goroutines may query it without
// locking. A Holder publishes exactly one Table for the lifetime of a process.
package index
