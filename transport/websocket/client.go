package websocket

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relaywire/roomrelay/relay/metrics"
	"github.com/relaywire/roomrelay/relay/protocol"
	"github.com/relaywire/roomrelay/relay/room"
	"github.com/relaywire/roomrelay/relay/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Server-initiated ping period.
	pingPeriod = 30 * time.Second

	// Time allowed to read the next pong. Must be more than pingPeriod:
	// a peer that misses one ping interval trips the read deadline.
	pongWait = pingPeriod + 5*time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Outbound buffer per connection. A peer that falls this far behind
	// starts missing messages.
	sendBufferSize = 256
)

var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrSendBufferFull   = errors.New("send buffer full")
)

// Client handles one WebSocket connection: it dispatches inbound protocol
// messages to the relay service and flushes outbound deliveries. It
// implements room.Sender.
type Client struct {
	conn    *websocket.Conn
	key     room.Key
	service service.RelayService

	send chan []byte
	quit chan struct{} // ask writePump to flush and close the peer
	done chan struct{} // connection torn down, rejects further sends

	quitOnce sync.Once
	doneOnce sync.Once

	// sess is set after a successful join. It is only written by readPump,
	// which processes messages sequentially.
	sess *room.Session
}

func newClient(conn *websocket.Conn, key room.Key, svc service.RelayService) *Client {
	return &Client{
		conn:    conn,
		key:     key,
		service: svc,
		send:    make(chan []byte, sendBufferSize),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Send enqueues a payload for delivery without blocking. It fails when
// the connection is torn down or the peer has fallen behind; callers
// treat either as a dropped delivery.
func (c *Client) Send(payload []byte) error {
	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- payload:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// readPump pumps messages from the connection into the relay service.
// It owns all reads and the disconnect cleanup path.
func (c *Client) readPump() {
	defer c.teardown()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	closing := false
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}

		if closing {
			// Close already requested; keep reading only to complete the
			// close handshake.
			continue
		}

		if !c.dispatch(raw) {
			closing = true
		}
	}
}

// dispatch handles one inbound frame. It returns false when the
// connection must close (capacity rejection). Malformed frames and
// unauthorized operations are dropped silently.
func (c *Client) dispatch(raw []byte) bool {
	msg, err := protocol.Decode(raw)
	if err != nil {
		return true
	}

	ctx := context.Background()

	switch msg.Type {
	case protocol.TypeJoin:
		res := c.service.Join(ctx, c.key, c, msg.PlayerID, msg.Username, c.sess)
		switch res.Outcome {
		case service.OutcomeOK:
			c.sess = res.Session
		case service.OutcomeRejected:
			if res.Rejoined {
				c.sess = nil
			}
			if payload, err := protocol.Encode(protocol.NewError(res.Reason)); err == nil {
				c.Send(payload)
			}
			if res.CloseConnection {
				c.requestClose()
				return false
			}
		}

	case protocol.TypeStateUpdate:
		delta, err := msg.StateDelta()
		if err != nil {
			return true
		}
		c.service.UpdateState(ctx, c.sess, delta)

	case protocol.TypeCustom:
		c.service.CustomEvent(ctx, c.sess, msg.Event, msg.Data)
	}

	// Unrecognized types fall through and are ignored.
	return true
}

// writePump pumps queued payloads to the connection and keeps the peer
// alive with periodic pings. It owns all data writes.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-c.quit:
			// Flush whatever was enqueued before the close request, then
			// tell the peer we are done.
			c.flush()
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case <-c.done:
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) flush() {
	for {
		select {
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		default:
			return
		}
	}
}

// requestClose asks the writePump to flush queued payloads and close the
// peer gracefully. Used after a capacity rejection so the error message
// reaches the client before the close frame.
func (c *Client) requestClose() {
	c.quitOnce.Do(func() { close(c.quit) })
}

// teardown runs exactly once when the connection ends, whatever the
// cause: peer close, network error, or liveness timeout. It removes the
// session from its room, which broadcasts player_left and sweeps empty
// rooms.
func (c *Client) teardown() {
	c.doneOnce.Do(func() {
		close(c.done)
		c.conn.Close()
		c.service.Disconnect(context.Background(), c.sess)
		metrics.RecordConnectionClose()
	})
}
