package ws

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quizhaus/quizhaus/internal/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	// sendBufferSize bounds the outbound queue. A client that cannot
	// drain this many events is considered dead.
	sendBufferSize = 64
)

// Client is one websocket connection with its outbound queue. Writes
// go through the send channel and a single write pump so the gorilla
// one-writer rule holds.
type Client struct {
	playerID model.PlayerID
	conn     *websocket.Conn
	send     chan []byte
	logger   *slog.Logger

	// mu guards closed and serializes enqueue against close, so a frame
	// is never sent on a closed channel
	mu     sync.Mutex
	closed bool

	// currentLobby is the lobby this connection is in, if any. Only the
	// read loop goroutine touches it.
	currentLobby model.LobbyID
}

func newClient(playerID model.PlayerID, conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{
		playerID: playerID,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		logger:   logger,
	}
}

// PlayerID returns the session-scoped player id of this connection
func (c *Client) PlayerID() model.PlayerID {
	return c.playerID
}

// enqueue queues an outbound frame, dropping the connection if the
// queue is full
func (c *Client) enqueue(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		c.logger.Warn("slow websocket client dropped",
			slog.String("player_id", string(c.playerID)))
		c.closed = true
		close(c.send)
	}
}

// close shuts the outbound queue, which makes the write pump send a
// close frame and drop the connection
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// writePump drains the send queue onto the connection and keeps the
// connection alive with pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
