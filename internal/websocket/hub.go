package websocket

import (
	"context"
	"encoding/json"
	"log/slog"

	"postboard/internal/event"
)

// Hub fans bus events out to every connected feed client.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Event bus to listen for events
	bus event.Bus

	// Closed when Run returns.
	done chan struct{}
}

func NewHub(bus event.Bus) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		bus:        bus,
		done:       make(chan struct{}),
	}
}

// Run owns the client set until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	events, unsubscribe := h.bus.Subscribe()
	defer unsubscribe()
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case e, ok := <-events:
			if !ok {
				return
			}
			message, err := json.Marshal(e)
			if err != nil {
				slog.Error("failed to marshal event", "error", err)
				continue
			}
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					slog.Warn("dropping slow feed client", slog.String("user_id", client.userID))
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}
