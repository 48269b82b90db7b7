// Package poller implements the single-flight polling loop.
//
// The Poller:
//   - Fetches collection activity on a timer or on-demand trigger
//   - Guarantees no two fetches ever run concurrently (single flight)
//   - Filters fetched events through the dedup window
//   - Forwards each newly admitted event, in upstream response order
//
// The dedup window and poll filters are mutated only inside the
// single-flight section or under the config mutex; no other component
// touches them.
package poller
