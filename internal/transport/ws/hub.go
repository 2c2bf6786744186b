package ws

import (
	"encoding/json"
	"sync"

	"mindgauge/internal/log"
)

// Message is the envelope pushed to monitor connections
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub fans assessment lifecycle events out to connected reviewer dashboards.
// It implements service.Notifier.
type Hub struct {
	mu    sync.RWMutex
	conns map[*Connection]bool

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan []byte
}

// Connection is one reviewer WebSocket client
type Connection struct {
	Send chan []byte
}

func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan []byte, 64),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn] = true
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if h.conns[conn] {
				delete(h.conns, conn)
				close(conn.Send)
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.conns {
				select {
				case conn.Send <- data:
				default:
					// Slow consumer; drop the event rather than block
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a reviewer connection to the fan-out set
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection and closes its send channel
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Notify broadcasts one event to every connected reviewer
func (h *Hub) Notify(event string, payload interface{}) {
	data, err := json.Marshal(Message{Type: event, Payload: payload})
	if err != nil {
		log.Errorf("marshal ws event %s: %v", event, err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		log.Warnf("ws broadcast queue full, dropping %s", event)
	}
}
