// Package protocol interprets inbound subscriber messages and translates
// them into poller actions and per-connection replies.
//
// Dispatch is on the message's "type" tag: ping, get_latest_events, and
// update_filters are handled; unrecognized types are ignored silently, and
// payloads that are not JSON get a fixed error reply on that one
// connection, which stays open.
package protocol
