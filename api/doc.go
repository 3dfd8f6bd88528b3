// Package api provides the HTTP surface of the relay server.
//
// The api package implements:
//   - The public status endpoint with permissive CORS
//   - Read-only room inspection under /api
//   - The WebSocket mount point
//   - Health and Prometheus metrics endpoints
//
// All endpoints are read-only: rooms are created and mutated exclusively
// through the WebSocket protocol. The status endpoint answers every
// caller identically and requires no authentication.
package api
