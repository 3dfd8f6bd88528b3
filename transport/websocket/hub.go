package websocket

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/relaywire/roomrelay/relay/metrics"
	"github.com/relaywire/roomrelay/relay/room"
	"github.com/relaywire/roomrelay/relay/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Configure this for production
		return true
	},
}

// Hub accepts WebSocket connections and wires each one to the relay
// service. Room state lives in the service's registry, so the hub itself
// holds no per-connection bookkeeping.
type Hub struct {
	service service.RelayService
}

// NewHub creates a hub that routes connections into the given service.
func NewHub(svc service.RelayService) *Hub {
	return &Hub{service: svc}
}

// ServeWS handles a WebSocket request. The room key is resolved from the
// `game` and `room` query parameters with defaults applied for missing
// values, so the upgrade itself never fails on routing.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	key := room.NewKey(r.URL.Query().Get("game"), r.URL.Query().Get("room"))

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := newClient(conn, key, h.service)
	metrics.RecordConnectionOpen()

	go client.writePump()
	go client.readPump()
}
