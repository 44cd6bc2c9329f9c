// Package websocket broadcasts pipeline progress to connected browsers. The
// hub owns the client set; clients talk to it only through the register,
// unregister and broadcast channels.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"edulake/internal/pipeline"
)

// Message types sent to clients.
const (
	TypeConnection       = "connection"
	TypePipelineProgress = "pipeline:progress"
)

// Message is the envelope for every outbound frame.
type Message struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex
	running bool
	quit    chan struct{}

	logger *slog.Logger
}

// NewHub creates a hub. Call Start before registering clients.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}

	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		logger:     logger.With(slog.String("component", "websocket.hub")),
	}
}

// Start runs the hub loop in its own goroutine.
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.run()
}

// Stop shuts the hub down and closes all client send channels.
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
}

func (h *Hub) run() {
	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("client connected",
				slog.String("client_id", client.id),
				slog.Int("clients", count))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("client disconnected",
				slog.String("client_id", client.id),
				slog.Int("clients", count))

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer; drop the frame rather than block the hub.
					h.logger.Warn("dropping frame for slow client",
						slog.String("client_id", client.id))
				}
			}
			h.mu.RUnlock()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a typed message to every connected client.
func (h *Hub) Broadcast(msgType string, payload interface{}) {
	data, err := json.Marshal(Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
	if err != nil {
		h.logger.Error("failed to marshal broadcast message",
			slog.String("type", msgType),
			slog.String("error", err.Error()))
		return
	}

	select {
	case h.broadcast <- data:
	case <-h.quit:
	}
}

// PublishProgress implements pipeline.ProgressNotifier.
func (h *Hub) PublishProgress(update pipeline.ProgressUpdate) {
	h.Broadcast(TypePipelineProgress, update)
}
