// Package model defines shared data types used across the relay.
//
// Conventions:
//   - Timestamps: int64 milliseconds since Unix epoch
//   - IDs: string txHash for events, UUID strings for client connections
package model
