package chatws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Should be configured properly for production
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

const (
	writeTimeout   = 10 * time.Second
	pongTimeout    = 60 * time.Second
	pingInterval   = 30 * time.Second
	sendBufferSize = 32
)

// OutboundMessage is the frame delivered to chat viewers.
type OutboundMessage struct {
	ID        domain.MessageID `json:"id"`
	StreamID  domain.StreamID  `json:"stream_id"`
	UserID    domain.UserID    `json:"user_id"`
	Username  string           `json:"username"`
	Text      string           `json:"text"`
	CreatedAt time.Time        `json:"created_at"`
}

type client struct {
	conn     *websocket.Conn
	streamID domain.StreamID
	send     chan []byte
}

// Hub fans chat messages out to websocket viewers grouped by stream.
// Viewers are read-only over the socket; messages are sent via the HTTP
// endpoint and arrive here through the event bus.
type Hub struct {
	mu      sync.RWMutex
	streams map[domain.StreamID]map[*client]struct{}
	logger  *zap.SugaredLogger
}

func NewHub(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		streams: make(map[domain.StreamID]map[*client]struct{}),
		logger:  logger,
	}
}

// Broadcast delivers a persisted chat message to every viewer of its
// stream. Slow consumers are dropped rather than allowed to block the
// rest of the room.
func (h *Hub) Broadcast(message *domain.ChatMessage) {
	frame, err := json.Marshal(&OutboundMessage{
		ID:        message.ID,
		StreamID:  message.StreamID,
		UserID:    message.UserID,
		Username:  message.Username,
		Text:      message.Text,
		CreatedAt: message.CreatedAt,
	})
	if err != nil {
		h.logger.Warnw("failed to marshal outbound chat message", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	viewers := h.streams[message.StreamID]
	for c := range viewers {
		select {
		case c.send <- frame:
		default:
			h.removeLocked(c)
		}
	}
}

// HandleWebSocket upgrades the request and streams chat messages for the
// given stream until the viewer disconnects.
func (h *Hub) HandleWebSocket(streamID domain.StreamID, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Errorw("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		conn:     conn,
		streamID: streamID,
		send:     make(chan []byte, sendBufferSize),
	}

	h.mu.Lock()
	if h.streams[streamID] == nil {
		h.streams[streamID] = make(map[*client]struct{})
	}
	h.streams[streamID][c] = struct{}{}
	h.mu.Unlock()

	h.logger.Debugw("chat viewer connected", "stream_id", streamID)

	go c.writePump()
	c.readPump(h)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	viewers := h.streams[c.streamID]
	if _, ok := viewers[c]; !ok {
		return
	}
	delete(viewers, c)
	if len(viewers) == 0 {
		delete(h.streams, c.streamID)
	}
	close(c.send)
}

// ViewerCount reports connected viewers for a stream.
func (h *Hub) ViewerCount(streamID domain.StreamID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.streams[streamID])
}

// readPump discards inbound frames and detects disconnects. The socket
// is delivery-only; writes go through the HTTP API.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
