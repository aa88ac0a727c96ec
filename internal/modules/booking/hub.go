package booking

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Hub fans calendar events out to every connected calendar view. Connections
// are write-only from the server's perspective; a failed write drops the
// subscriber. gorilla/websocket permits one concurrent writer per connection,
// so each subscriber carries its own write lock.
type Hub struct {
	subscribers map[*websocket.Conn]*sync.Mutex
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[*websocket.Conn]*sync.Mutex),
	}
}

func (h *Hub) Subscribe(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.subscribers[conn] = &sync.Mutex{}
}

func (h *Hub) Unsubscribe(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.subscribers[conn]; ok {
		_ = conn.Close()
		delete(h.subscribers, conn)
	}
}

func (h *Hub) Broadcast(event CalendarEvent) {
	type target struct {
		conn    *websocket.Conn
		writeMu *sync.Mutex
	}
	h.mutex.RLock()
	targets := make([]target, 0, len(h.subscribers))
	for conn, writeMu := range h.subscribers {
		targets = append(targets, target{conn: conn, writeMu: writeMu})
	}
	h.mutex.RUnlock()

	for _, t := range targets {
		t.writeMu.Lock()
		err := t.conn.WriteJSON(event)
		t.writeMu.Unlock()
		if err != nil {
			h.Unsubscribe(t.conn)
		}
	}
}

func (h *Hub) SubscriberCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.subscribers)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for conn := range h.subscribers {
		_ = conn.Close()
		delete(h.subscribers, conn)
	}
}
