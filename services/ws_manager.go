package services

import (
	"log"
	"sync"
)

// Hub tracks live connections. Every authenticated client sits in its
// private per-user room; on top of that a client is in at most one
// conversation room at a time, changed only by its own join events.
type Hub struct {
	mu    sync.RWMutex
	users map[string]map[*Client]bool // user id -> connections
	rooms map[string]map[*Client]bool // conversation id -> connections
}

func NewHub() *Hub {
	return &Hub{
		users: make(map[string]map[*Client]bool),
		rooms: make(map[string]map[*Client]bool),
	}
}

// Register adds a freshly authenticated connection and auto-subscribes it to
// the user's private room.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.users[c.user.ID] == nil {
		h.users[c.user.ID] = make(map[*Client]bool)
	}
	h.users[c.user.ID][c] = true
	log.Printf("client connected: user=%s conn=%s", c.user.ID, c.id)
}

// Unregister drops the connection from its user room and any conversation
// room, then closes its send channel. Safe to call more than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.unregisterLocked(c) {
		log.Printf("client disconnected: user=%s conn=%s", c.user.ID, c.id)
	}
}

// Drop forcibly disconnects a client whose send buffer cannot take another
// payload. Quietly discarding the payload would leave its request with no
// terminal outcome, so the slow connection is torn down instead and the
// failure shows up as a disconnect.
func (h *Hub) Drop(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

// JoinRoom moves the connection into the conversation's room, leaving
// whichever room it was in before. Membership authorization happens before
// this is called.
func (h *Hub) JoinRoom(c *Client, conversationID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leaveRoomLocked(c)
	if h.rooms[conversationID] == nil {
		h.rooms[conversationID] = make(map[*Client]bool)
	}
	h.rooms[conversationID][c] = true
	c.room = conversationID
}

// RoomOf reports the conversation room the connection currently sits in,
// or "" when unjoined.
func (h *Hub) RoomOf(c *Client) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return c.room
}

// SendToUser pushes a payload to every live connection of one user,
// dropping any connection too slow to take it. This is the server-initiated
// path behind the private per-user room; no client event publishes here yet.
func (h *Hub) SendToUser(userID string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.users[userID] {
		select {
		case c.send <- payload:
		default:
			h.dropLocked(c)
		}
	}
}

// SendToRoom pushes a payload to every connection joined to a conversation
// room, dropping slow ones the same way. send-message deliberately does not
// call this (the sender is only acked); it exists for server pushes.
func (h *Hub) SendToRoom(conversationID string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.rooms[conversationID] {
		select {
		case c.send <- payload:
		default:
			h.dropLocked(c)
		}
	}
}

func (h *Hub) dropLocked(c *Client) {
	if h.unregisterLocked(c) {
		if c.conn != nil {
			_ = c.conn.Close()
		}
		log.Printf("send buffer full, dropping slow client: user=%s conn=%s", c.user.ID, c.id)
	}
}

// unregisterLocked removes the connection from every room and closes its
// send channel. Reports false when the connection was already gone.
func (h *Hub) unregisterLocked(c *Client) bool {
	conns, ok := h.users[c.user.ID]
	if !ok || !conns[c] {
		return false
	}
	delete(conns, c)
	if len(conns) == 0 {
		delete(h.users, c.user.ID)
	}
	h.leaveRoomLocked(c)
	close(c.send)
	return true
}

func (h *Hub) leaveRoomLocked(c *Client) {
	if c.room == "" {
		return
	}
	if room, ok := h.rooms[c.room]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, c.room)
		}
	}
	c.room = ""
}
