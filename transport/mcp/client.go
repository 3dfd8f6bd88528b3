package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/relaywire/roomrelay/relay/service"
)

// Client is a thin MCP client that proxies to the REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API at baseURL.
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools.
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Room Relay Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Room Relay Server - MCP Interface

This is a thin client that proxies all requests to the REST API server.

The relay lets clients in the same (game, room) key exchange small JSON
messages over WebSocket. These tools give read-only visibility into the
live registry; joining and messaging happen over the WebSocket protocol.

AVAILABLE TOOLS:
- server_status: Aggregate room and player counts
- list_rooms: List every live room with its member count
- get_room: Full membership of one room, including each player's state`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools.
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "server_status",
		Description: "Get the relay server status and registry aggregates",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleServerStatus)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rooms",
		Description: "List all live rooms with their player counts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListRooms)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_room",
		Description: "Get the membership of a single room",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game identifier of the room key",
				},
				"room_id": map[string]interface{}{
					"type":        "string",
					"description": "Room identifier of the room key",
				},
			},
			Required: []string{"game_id", "room_id"},
		},
	}, c.handleGetRoom)
}

// GetMCPServer exposes the underlying MCP server for serving over HTTP
// or stdio.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall performs a GET against the REST API and decodes the response.
func (c *Client) apiCall(path string, result interface{}) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// Tool handlers

func (c *Client) handleServerStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var status struct {
		Server  string `json:"server"`
		Version string `json:"version"`
		Status  string `json:"status"`
		Rooms   int    `json:"rooms"`
		Players int    `json:"players"`
	}

	if err := c.apiCall("/status", &status); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s v%s (%s)\nRooms: %d\nPlayers: %d",
		status.Server, status.Version, status.Status, status.Rooms, status.Players)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var listing struct {
		Count int                `json:"count"`
		Rooms []service.RoomInfo `json:"rooms"`
	}

	if err := c.apiCall("/api/rooms", &listing); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if listing.Count == 0 {
		return mcp.NewToolResultText("No live rooms."), nil
	}

	result := fmt.Sprintf("Live rooms (%d):\n\n", listing.Count)
	for _, info := range listing.Rooms {
		result += fmt.Sprintf("• game=%s room=%s players=%d\n", info.GameID, info.RoomID, info.Players)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	roomID, _ := args["room_id"].(string)

	var detail service.RoomDetail
	if err := c.apiCall(fmt.Sprintf("/api/rooms/%s/%s", gameID, roomID), &detail); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Room game=%s room=%s (%d players)\n\n", detail.GameID, detail.RoomID, len(detail.Players))
	for _, p := range detail.Players {
		state, err := json.Marshal(p.Data)
		if err != nil {
			state = []byte("{}")
		}
		result += fmt.Sprintf("• %s (%s) state=%s\n", p.ID, p.Username, state)
	}
	return mcp.NewToolResultText(result), nil
}
