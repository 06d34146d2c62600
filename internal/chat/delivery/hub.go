package delivery

import (
	"sync"
)

// roomConn is what the hub needs from a connection. *websocket.Conn
// satisfies it.
type roomConn interface {
	WriteJSON(v interface{}) error
}

// Hub tracks which users sit in which chat room and fans messages out to
// everyone in a room. A user joining the same room twice replaces their
// previous connection.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[string]roomConn
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[string]roomConn)}
}

func (h *Hub) Join(chatID, userID string, conn roomConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[chatID]
	if !ok {
		room = make(map[string]roomConn)
		h.rooms[chatID] = room
	}
	room[userID] = conn
}

func (h *Hub) Leave(chatID, userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[chatID]
	if !ok {
		return
	}
	delete(room, userID)
	if len(room) == 0 {
		delete(h.rooms, chatID)
	}
}

// Broadcast sends v to every connection in the room. Write failures are
// returned as a count; the failing peers stay joined and are cleaned up by
// their own read loops.
func (h *Hub) Broadcast(chatID string, v interface{}) int {
	h.mu.Lock()
	conns := make([]roomConn, 0, len(h.rooms[chatID]))
	for _, conn := range h.rooms[chatID] {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	failed := 0
	for _, conn := range conns {
		if err := conn.WriteJSON(v); err != nil {
			failed++
		}
	}
	return failed
}

// RoomSize reports how many users sit in the room.
func (h *Hub) RoomSize(chatID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[chatID])
}
