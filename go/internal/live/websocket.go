package live

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/pitchnight/arena/go/internal/hub"
)

// ConnConfig holds configuration for WebSocket connections
type ConnConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConnConfig returns default WebSocket configuration
func DefaultConnConfig() ConnConfig {
	return ConnConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins in development - restrict in production
			return true
		},
	}
}

// WebSocketHandler serves the same live events as the SSE endpoint over a
// WebSocket, for clients behind proxies that mangle event streams.
type WebSocketHandler struct {
	hub      *hub.Hub
	snap     SnapshotFunc
	upgrader websocket.Upgrader
	config   ConnConfig
}

func NewWebSocketHandler(h *hub.Hub, snap SnapshotFunc, config ConnConfig) *WebSocketHandler {
	return &WebSocketHandler{
		hub:  h,
		snap: snap,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config: config,
	}
}

func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade WebSocket connection")
		return
	}

	c := &wsConn{
		conn:   conn,
		send:   make(chan []byte, 64),
		config: h.config,
	}

	// Synthetic connected event so late joiners see the current state.
	if data, err := json.Marshal(hub.Event{Type: hub.EventConnected, Data: h.snap(), Timestamp: time.Now()}); err == nil {
		c.send <- data
	}

	id, ch := h.hub.Subscribe()
	c.onClose = func() { h.hub.Unsubscribe(id) }

	go c.writePump()
	go c.forward(ch)
	c.readPump()
}

// wsConn is one viewer's WebSocket connection.
type wsConn struct {
	conn    *websocket.Conn
	send    chan []byte
	config  ConnConfig
	onClose func()
	once    sync.Once
}

// close tears the connection down and unsubscribes exactly once, whichever
// pump notices the disconnect first.
func (c *wsConn) close() {
	c.once.Do(func() {
		c.onClose()
		c.conn.Close()
	})
}

// forward moves hub events onto the send channel until the subscription ends.
func (c *wsConn) forward(ch <-chan hub.Event) {
	for ev := range ch {
		data, err := json.Marshal(ev)
		if err != nil {
			log.Error().Err(err).Str("event_type", string(ev.Type)).Msg("failed to marshal live event")
			continue
		}
		select {
		case c.send <- data:
		default:
			// Writer is stuck; drop the connection rather than block.
			c.close()
			return
		}
	}
	c.close()
}

// writePump handles sending messages to the WebSocket connection
func (c *wsConn) writePump() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames until the connection drops. Viewers never
// send commands over this channel; control goes through the HTTP endpoint.
func (c *wsConn) readPump() {
	defer c.close()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Msg("unexpected WebSocket close error")
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
	}
}
