// Package hub implements the connection registry for live subscribers.
//
// The Registry:
//   - Tracks every open WebSocket connection keyed by an opaque client ID
//   - Serializes outbound writes per connection through a write pump
//   - Supports targeted send, fan-out broadcast, enumeration, and teardown
//
// Delivery is best effort and at most once: sends to a closed or erroring
// connection are dropped silently, and a slow subscriber whose send buffer
// fills loses messages rather than stalling the broadcast path.
package hub
