package mcp

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/relaywire/roomrelay/api"
	"github.com/relaywire/roomrelay/relay/room"
	"github.com/relaywire/roomrelay/relay/service"
)

func newBackend(t *testing.T) (*httptest.Server, service.RelayService) {
	t.Helper()

	svc := service.NewRelayService(room.NewRegistry(50))
	server := httptest.NewServer(api.NewServer(svc, nil, api.Info{Name: "roomrelay", Version: "1.0.0"}))
	t.Cleanup(server.Close)
	return server, svc
}

// nopSender satisfies room.Sender for sessions created directly in tests.
type nopSender struct{}

func (nopSender) Send([]byte) error { return nil }

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	if args == nil {
		args = map[string]interface{}{}
	}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("Tool result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("Expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080")

	if client == nil {
		t.Fatal("Expected client to be created")
	}
	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Unexpected baseURL %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestServerStatusTool(t *testing.T) {
	server, svc := newBackend(t)
	client := NewClient(server.URL)

	svc.Join(context.Background(), room.NewKey("1", "lobby"), nopSender{}, "p1", "Al", nil)

	result, err := client.handleServerStatus(context.Background(), toolRequest("server_status", nil))
	if err != nil {
		t.Fatalf("server_status failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Rooms: 1") || !strings.Contains(text, "Players: 1") {
		t.Errorf("Unexpected status text: %q", text)
	}
}

func TestListRoomsTool(t *testing.T) {
	server, svc := newBackend(t)
	client := NewClient(server.URL)

	result, err := client.handleListRooms(context.Background(), toolRequest("list_rooms", nil))
	if err != nil {
		t.Fatalf("list_rooms failed: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "No live rooms") {
		t.Errorf("Expected empty listing, got %q", text)
	}

	svc.Join(context.Background(), room.NewKey("1", "lobby"), nopSender{}, "p1", "Al", nil)

	result, err = client.handleListRooms(context.Background(), toolRequest("list_rooms", nil))
	if err != nil {
		t.Fatalf("list_rooms failed: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "game=1 room=lobby players=1") {
		t.Errorf("Unexpected listing: %q", text)
	}
}

func TestGetRoomTool(t *testing.T) {
	server, svc := newBackend(t)
	client := NewClient(server.URL)

	res := svc.Join(context.Background(), room.NewKey("1", "lobby"), nopSender{}, "p1", "Al", nil)
	svc.UpdateState(context.Background(), res.Session, map[string]any{"x": 1})

	result, err := client.handleGetRoom(context.Background(), toolRequest("get_room", map[string]interface{}{
		"game_id": "1",
		"room_id": "lobby",
	}))
	if err != nil {
		t.Fatalf("get_room failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "p1 (Al)") {
		t.Errorf("Expected membership in output, got %q", text)
	}
	if !strings.Contains(text, `"x":1`) {
		t.Errorf("Expected player state in output, got %q", text)
	}
}

func TestGetRoomToolNotFound(t *testing.T) {
	server, _ := newBackend(t)
	client := NewClient(server.URL)

	result, err := client.handleGetRoom(context.Background(), toolRequest("get_room", map[string]interface{}{
		"game_id": "9",
		"room_id": "nowhere",
	}))
	if err != nil {
		t.Fatalf("get_room returned a transport error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected a tool error for a missing room")
	}
}

func TestAPICallError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")

	if err := client.apiCall("/status", nil); err == nil {
		t.Error("Expected error for unreachable backend")
	}
}
