package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// Entities announced on the hub.
const (
	EntityFamily  = "family"
	EntityUser    = "user"
	EntityAidType = "aid_type"
	EntityVisit   = "visit"
)

// Actions announced on the hub.
const (
	ActionCreated     = "created"
	ActionUpdated     = "updated"
	ActionDeleted     = "deleted"
	ActionActivated   = "activated"
	ActionDeactivated = "deactivated"
)

// Event tells open console pages that an entity changed and their view is stale.
type Event struct {
	Type   string    `json:"type"`
	Entity string    `json:"entity"`
	Action string    `json:"action"`
	ID     string    `json:"id,omitempty"`
	At     time.Time `json:"at"`
}

// NewEvent builds an Event whose Type is "<entity>_<action>".
func NewEvent(entity, action, id string) Event {
	return Event{
		Type:   entity + "_" + action,
		Entity: entity,
		Action: action,
		ID:     id,
		At:     time.Now().UTC(),
	}
}

// Publisher is what mutating handlers need from the hub.
type Publisher interface {
	Publish(entity, action, id string)
}

// Hub fans change events out to every connected console.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client and closes its send channel. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Publish broadcasts a freshly built event.
func (h *Hub) Publish(entity, action, id string) {
	h.Broadcast(NewEvent(entity, action, id))
}

// Broadcast never blocks: a client whose buffer is full misses the event.
func (h *Hub) Broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Debug("broadcast dropped", "type", ev.Type, "clients", dropped)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client, used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
