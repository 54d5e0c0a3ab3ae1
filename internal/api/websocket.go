package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"vmr2tei/internal/converter"
	"vmr2tei/internal/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The server is meant for local use; origins are not restricted.
		return true
	},
}

// ProgressMessage is a conversion event sent to WebSocket clients.
type ProgressMessage struct {
	Type      string `json:"type"` // "progress", "complete", "error"
	JobID     string `json:"job_id"`
	Index     string `json:"index"`
	Stage     string `json:"stage,omitempty"`
	Progress  int    `json:"progress"` // 0-100
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
}

// wsClient represents a WebSocket client connection.
type wsClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains active WebSocket connections and broadcasts messages.
type Hub struct {
	clients    map[*wsClient]bool
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *wsClient
	mu         sync.RWMutex
}

// NewHub creates a new WebSocket hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*wsClient]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
	}
}

// Run handles client registration and broadcasting. It never returns.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logging.WebSocketEvent("client_connected", h.clientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			logging.WebSocketEvent("client_disconnected", h.clientCount())

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client channel full, disconnect.
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// send marshals a message and queues it for broadcast.
func (h *Hub) sendMessage(msg ProgressMessage) {
	if msg.Timestamp == "" {
		msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		logging.Error("failed to marshal progress message", "error", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		logging.Warn("broadcast channel full, dropping message")
	}
}

// BroadcastProgress sends a pipeline progress update for a job.
func (h *Hub) BroadcastProgress(jobID string, p converter.Progress) {
	h.sendMessage(ProgressMessage{
		Type:     "progress",
		JobID:    jobID,
		Index:    p.Index,
		Stage:    p.Stage,
		Progress: p.Percent,
	})
}

// BroadcastComplete announces a finished job.
func (h *Hub) BroadcastComplete(jobID string, res *converter.Result) {
	h.sendMessage(ProgressMessage{
		Type:     "complete",
		JobID:    jobID,
		Index:    res.Index,
		Stage:    converter.StageDone,
		Progress: 100,
	})
}

// BroadcastError announces a failed job.
func (h *Hub) BroadcastError(jobID, index, message string) {
	h.sendMessage(ProgressMessage{
		Type:    "error",
		JobID:   jobID,
		Index:   index,
		Message: message,
	})
}

// readPump reads (and discards) messages from the connection until it
// closes, keeping the pong deadline fresh.
func (c *wsClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Error("websocket unexpected close", "error", err)
			}
			break
		}
	}
}

// writePump writes queued messages to the connection.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleWebSocket upgrades HTTP connections and registers clients.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("websocket upgrade failed", "error", err)
		return
	}
	client := &wsClient{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
	client.hub.register <- client
	go client.writePump()
	go client.readPump()
}
