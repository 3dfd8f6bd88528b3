// Package websocket provides the WebSocket transport for the relay server.
//
// The websocket package implements:
//   - Connection acceptance and (game, room) routing
//   - Per-connection protocol dispatch (join, state_update, custom)
//   - Liveness detection via ping/pong deadlines
//   - Best-effort outbound delivery with silent drops
//
// Architecture:
//
// The Hub accepts connections and resolves the room key from the `game`
// and `room` query parameters, substituting defaults when absent. Each
// accepted connection gets a Client with two dedicated goroutines: a
// readPump that decodes inbound frames and drives the relay service, and
// a writePump that flushes the buffered send channel and emits pings.
//
// Message Protocol:
//
// Frames are JSON objects with a `type` discriminant. Unparsable frames,
// frames without a type, and operations that require a joined session are
// dropped silently; the connection stays open and nothing is sent back.
//
// Delivery:
//
// The Client's Send enqueues without blocking. A full buffer or a closed
// connection fails the send, which the room layer treats as a dropped
// delivery. A slow peer therefore misses messages instead of stalling its
// room.
//
// Liveness:
//
// The writePump pings the peer every pingPeriod; the pong handler extends
// the read deadline. A peer that misses one interval trips the read
// deadline, which tears the connection down through the same cleanup path
// as a normal disconnect.
package websocket
