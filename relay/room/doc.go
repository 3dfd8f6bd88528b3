// Package room implements the room registry and broadcast engine of the
// relay server.
//
// The room package implements:
//   - Room lifecycle (lazy creation, empty-room sweeping)
//   - Per-room membership keyed by playerId
//   - Session state storage with shallow delta merges
//   - Serialize-once broadcast fan-out with best-effort delivery
//
// Architecture:
//
// A Registry maps (gameId, roomId) keys to Rooms and is the single source
// of truth for which rooms exist. Each Room guards its own membership map
// with an RWMutex, so operations on different rooms never contend. Join,
// leave, state merge, and broadcast are linearizable per room: each runs
// entirely under that room's lock, and deliveries are non-blocking channel
// enqueues that are safe to perform while the lock is held.
//
// Delivery Semantics:
//
// Broadcasts serialize the message once and attempt delivery to every
// member except an optional excluded playerId. A recipient whose transport
// is closed or whose send buffer is full simply misses the message; the
// failure never aborts delivery to the remaining members and is never
// surfaced to the sender.
//
// Lifecycle:
//
// Rooms are created on first reference and removed by SweepEmpty, which
// deletes every room currently holding zero sessions. A room is marked
// closed before removal so a concurrent join can detect the race and
// re-resolve the key through the Registry.
package room
