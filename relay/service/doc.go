// Package service provides the business logic layer of the relay server.
//
// The service package implements:
//   - Join admission (capacity, playerId uniqueness, rejoin handling)
//   - State delta merging and fan-out
//   - Custom event relay
//   - Disconnect cleanup and empty-room sweeping
//   - Read-only aggregates for the status endpoint and MCP tools
//
// Architecture:
//
// RelayService sits between the transport layer (WebSocket, HTTP, MCP)
// and the room registry. The transport layer never touches rooms
// directly: it hands decoded protocol messages to the service and acts
// on the returned result.
//
// Results:
//
// Every mutating operation returns a discriminated outcome rather than
// relying on wire-visible behavior. The wire contract for ignored input
// is "no response", so the outcome is the only way callers and tests can
// tell an applied operation from a silently dropped one.
package service
