// Command relay-probe is a small interactive client for poking at a
// running relay server. It joins a room over WebSocket, prints every
// message the server relays, and forwards lines typed on stdin as
// state_update deltas (lines starting with "/" are sent as custom
// events, e.g. "/chat hello there").
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/relaywire/roomrelay/relay/protocol"
)

var (
	addr     = flag.String("addr", "localhost:8080", "relay server address")
	game     = flag.String("game", "probe", "game identifier")
	roomID   = flag.String("room", "default", "room identifier")
	playerID = flag.String("player", "", "player identifier (random if empty)")
	username = flag.String("name", "probe", "display name")
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	id := *playerID
	if id == "" {
		id = "probe-" + uuid.NewString()[:8]
	}

	u := url.URL{
		Scheme:   "ws",
		Host:     *addr,
		Path:     "/ws",
		RawQuery: url.Values{"game": {*game}, "room": {*roomID}}.Encode(),
	}
	log.Printf("Connecting to %s as %s", u.String(), id)

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	join := map[string]any{"type": protocol.TypeJoin, "playerId": id, "username": *username}
	if err := conn.WriteJSON(join); err != nil {
		log.Fatalf("Join failed: %v", err)
	}

	// Print everything the server sends until the connection drops.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				log.Printf("Connection closed: %v", err)
				return
			}
			printMessage(raw)
		}
	}()

	go readStdin(conn)

	<-done
}

// printMessage pretty-prints a relayed message, falling back to the raw
// payload when it is not an object we recognize.
func printMessage(raw []byte) {
	var msg map[string]any
	if err := json.Unmarshal(raw, &msg); err != nil {
		fmt.Printf("<< %s\n", raw)
		return
	}

	switch msg["type"] {
	case protocol.TypeRoomState:
		fmt.Printf("<< room_state: %s\n", compact(msg["players"]))
	case protocol.TypePlayerJoined:
		fmt.Printf("<< player_joined: %s (%v)\n", msg["playerId"], msg["username"])
	case protocol.TypePlayerLeft:
		fmt.Printf("<< player_left: %s\n", msg["playerId"])
	case protocol.TypeStateUpdate:
		fmt.Printf("<< state_update from %s: %s\n", msg["playerId"], compact(msg["data"]))
	case protocol.TypeError:
		fmt.Printf("<< error: %v\n", msg["message"])
	default:
		fmt.Printf("<< %s\n", raw)
	}
}

func compact(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// readStdin forwards typed lines to the server. A plain line becomes a
// state_update with the line under a "note" key; "/event payload" sends
// a custom event.
func readStdin(conn *websocket.Conn) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var msg map[string]any
		if strings.HasPrefix(line, "/") {
			parts := strings.SplitN(line[1:], " ", 2)
			payload := ""
			if len(parts) == 2 {
				payload = parts[1]
			}
			msg = map[string]any{
				"type":  protocol.TypeCustom,
				"event": parts[0],
				"data":  map[string]any{"text": payload},
			}
		} else {
			msg = map[string]any{
				"type": protocol.TypeStateUpdate,
				"data": map[string]any{"note": line},
			}
		}

		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("Write failed: %v", err)
			return
		}
	}
}
