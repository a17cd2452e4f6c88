// Package websocket streams newly created notifications to their
// recipients' open connections.
package websocket

import (
	"encoding/json"
	"sync"

	"github.com/ewhitmore/lawdesk/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Event is the wire shape pushed to subscribers.
type Event struct {
	Type string               `json:"type"`
	Data *domain.Notification `json:"data"`
}

type Hub struct {
	clients       map[uuid.UUID]map[*Client]bool
	register      chan *Client
	unregister    chan *Client
	notifications chan *domain.Notification
	stop          chan struct{}
	done          chan struct{} // closed when Run() exits
	stopped       bool
	logger        zerolog.Logger
	mu            sync.RWMutex
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:       make(map[uuid.UUID]map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		notifications: make(chan *domain.Notification, 64),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
		logger:        logger,
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for _, conns := range h.clients {
				for client := range conns {
					client.Close()
				}
			}
			h.clients = make(map[uuid.UUID]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				if h.clients[client.userID] == nil {
					h.clients[client.userID] = make(map[*Client]bool)
				}
				h.clients[client.userID][client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if !h.stopped {
				if conns, ok := h.clients[client.userID]; ok {
					if _, ok := conns[client]; ok {
						delete(conns, client)
						client.Close()
						if len(conns) == 0 {
							delete(h.clients, client.userID)
						}
					}
				}
			}
			h.mu.Unlock()

		case n := <-h.notifications:
			h.deliver(n)
		}
	}
}

// Publish queues a notification for delivery to the recipient's open
// connections. Callers are never blocked; delivery is dropped when the
// hub is saturated or stopped.
func (h *Hub) Publish(n *domain.Notification) {
	select {
	case h.notifications <- n:
	default:
		h.logger.Warn().Str("user_id", n.UserID.String()).Msg("notification stream saturated, dropping event")
	}
}

func (h *Hub) deliver(n *domain.Notification) {
	payload, err := json.Marshal(Event{Type: "notification", Data: n})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to marshal notification event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[n.UserID] {
		select {
		case client.send <- payload:
		default:
			// Slow consumer; drop the event rather than the hub.
		}
	}
}

// Stop gracefully shuts down the hub and closes all connections.
func (h *Hub) Stop() {
	close(h.stop)
	<-h.done
}
