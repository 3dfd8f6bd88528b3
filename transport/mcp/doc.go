// Package mcp provides an MCP (Model Context Protocol) interface to the
// relay server.
//
// The Client is a thin proxy: every tool call is translated into a
// request against the relay's REST API, so MCP consumers observe exactly
// what HTTP consumers observe. All tools are read-only; rooms are created
// and mutated only through the WebSocket protocol.
//
// The same Client serves two transports: the /mcp HTTP endpoint in
// server mode, and stdio in stdio-mcp mode.
package mcp
