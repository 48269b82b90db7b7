// Package api implements the client for the upstream event-data provider.
//
// The provider exposes collection activity through a single paginated POST
// endpoint and offers no push mechanism; the poller drives this client on a
// timer. One call per poll cycle, no retries here — the next scheduled tick
// is the retry.
package api
