package api

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	// Local tool; accept any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans job snapshots out to websocket subscribers. Writes happen
// under the lock, which both serializes writers per connection and
// keeps the subscriber set consistent; a failed write drops the
// connection.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[*websocket.Conn]bool),
	}
}

// Subscribe upgrades the request and registers the connection. The
// reader goroutine exists only to notice the peer going away.
func (h *Hub) Subscribe(w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.conns[conn] = true
	h.mu.Unlock()

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.drop(conn)
				return
			}
		}
	}()

	return nil
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}

// Broadcast sends one job snapshot to every subscriber.
func (h *Hub) Broadcast(job Job) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteJSON(job); err != nil {
			conn.Close()
			delete(h.conns, conn)
		}
	}
}
