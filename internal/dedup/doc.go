// Package dedup implements the bounded seen-event window.
//
// The Window:
//   - Records txHash identifiers in insertion order
//   - Answers "is this new?" for each candidate in a fetched batch
//   - Evicts the oldest identifiers once capacity is exceeded
//
// Eviction is size-triggered, never time-triggered. The Window is owned
// exclusively by the poller's single-flight cycle and is not safe for
// concurrent use.
package dedup
