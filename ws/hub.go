package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	closeOnce sync.Once
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.Send) })
}

// Hub owns the presence registry: one live connection per user id,
// last connection wins. State is process-local and lost on restart;
// clients re-register on reconnect.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[c.UserID]; ok && old != c {
				// A newer connection replaces the old one.
				old.closeSend()
			}
			h.clients[c.UserID] = c
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			// Only drop the mapping if this client still owns it; a faster
			// reconnect may already have claimed the user id. The close must
			// stay under the lock: SendToUser holds the read lock while it
			// writes to Send, so closing here cannot race a send.
			if cur, ok := h.clients[c.UserID]; ok && cur == c {
				delete(h.clients, c.UserID)
			}
			c.closeSend()
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.Lock()
			for id, c := range h.clients {
				select {
				case c.Send <- data:
				default:
					c.closeSend()
					delete(h.clients, id)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for id, c := range h.clients {
				c.closeSend()
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}

// Lookup returns the client currently registered for userID, or nil.
func (h *Hub) Lookup(userID string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[userID]
}

// SendToUser delivers an event to one user's connection, best effort.
// Reports whether a connection was found; absent recipients are skipped
// and rely on fetching the persisted record later.
func (h *Hub) SendToUser(userID, event string, data any) bool {
	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		log.Printf("ws: marshal %s: %v", event, err)
		return false
	}

	// The read lock is held across the send: Run only closes Send channels
	// while holding the write lock, so a registered client's channel cannot
	// be closed under us mid-send.
	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[userID]
	if !ok {
		return false
	}

	select {
	case c.Send <- payload:
		return true
	default:
		return false
	}
}

// Broadcast delivers an event to every connected client.
func (h *Hub) Broadcast(event string, data any) {
	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		log.Printf("ws: marshal %s: %v", event, err)
		return
	}
	select {
	case h.broadcast <- payload:
	case <-h.done:
	}
}
