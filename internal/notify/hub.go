package notify

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// conn is the subset of *websocket.Conn the hub needs; tests substitute fakes.
type conn interface {
	WriteJSON(v any) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// Hub broadcasts events to every connected client. Clients that fail a write
// are dropped on the spot; there is no queueing or redelivery.
type Hub struct {
	mu       sync.Mutex
	clients  map[conn]struct{}
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewHub builds an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[conn]struct{}),
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWS upgrades the request and keeps the connection registered until the
// client goes away.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	h.add(ws)
	h.logger.Info("notification client connected", zap.String("remote", r.RemoteAddr))

	// Drain inbound frames; the channel is one-way but reads detect closes.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(ws)
	_ = ws.Close()
	h.logger.Info("notification client disconnected", zap.String("remote", r.RemoteAddr))
}

// Broadcast pushes one event to all clients, dropping any that error.
func (h *Hub) Broadcast(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if err := c.WriteJSON(event); err != nil {
			delete(h.clients, c)
			_ = c.Close()
			h.logger.Warn("dropping notification client", zap.Error(err))
		}
	}
}

// ClientCount reports connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) add(c conn) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(c conn) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}
