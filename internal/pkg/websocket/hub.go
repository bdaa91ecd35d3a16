package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event types pushed to clients
const (
	EventMessage     = "message"
	EventMessageRead = "message_read"
)

// Event is the JSON frame written to a socket
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Inbound is a frame received from a client, tagged with the sender
type Inbound struct {
	SenderID int64  `json:"-"`
	Type     string `json:"type"`
	To       string `json:"to"`
	Content  string `json:"content"`
}

type delivery struct {
	userID int64
	event  *Event
}

// Hub tracks open sockets per user and delivers events to them
type Hub struct {
	// Registered clients organized by user ID. A user may have several tabs open.
	clients map[int64]map[*Client]bool

	deliver    chan delivery
	inbound    chan *Inbound
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	listenersMu sync.RWMutex
	listeners   []chan *Inbound

	now    func() time.Time
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		deliver:    make(chan delivery, 256),
		inbound:    make(chan *Inbound, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		now:        time.Now,
		logger:     logger,
	}
}

// Run processes registrations and deliveries until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case d := <-h.deliver:
			h.deliverEvent(d)

		case msg := <-h.inbound:
			h.notifyListeners(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	h.logger.Info().
		Int64("userID", client.userID).
		Str("addr", client.remoteAddr()).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	conns, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}
	delete(conns, client)
	close(client.send)
	if len(conns) == 0 {
		delete(h.clients, client.userID)
	}

	h.logger.Info().
		Int64("userID", client.userID).
		Str("addr", client.remoteAddr()).
		Msg("Client unregistered")
}

func (h *Hub) deliverEvent(d delivery) {
	data, err := json.Marshal(d.event)
	if err != nil {
		h.logger.Error().Err(err).Int64("userID", d.userID).Msg("Failed to marshal event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[d.userID]
	if !ok {
		h.logger.Debug().Int64("userID", d.userID).Msg("No open sockets for user")
		return
	}

	for client := range conns {
		select {
		case client.send <- data:
		default:
			// slow consumer
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conns := range h.clients {
		for client := range conns {
			h.removeLocked(client)
		}
	}
}

func (h *Hub) notifyListeners(msg *Inbound) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, listener := range h.listeners {
		select {
		case listener <- msg:
		default:
			h.logger.Warn().Int64("senderID", msg.SenderID).Msg("Skipped slow message listener")
		}
	}
}

// SendToUser queues an event for every socket the user has open. It never
// blocks the caller; events are dropped when the queue is full.
func (h *Hub) SendToUser(userID int64, eventType string, data interface{}) {
	event := &Event{Type: eventType, Data: data, Timestamp: h.now()}
	select {
	case h.deliver <- delivery{userID: userID, event: event}:
	default:
		h.logger.Warn().Int64("userID", userID).Str("type", eventType).Msg("Delivery queue full, event dropped")
	}
}

// ClientCount returns the number of open sockets for a user
func (h *Hub) ClientCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// AddMessageListener registers a channel that receives every inbound frame
func (h *Hub) AddMessageListener(listener chan *Inbound) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()
	h.listeners = append(h.listeners, listener)
}

// RemoveMessageListener removes a listener from the hub
func (h *Hub) RemoveMessageListener(listener chan *Inbound) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	for i, l := range h.listeners {
		if l == listener {
			h.listeners[i] = h.listeners[len(h.listeners)-1]
			h.listeners = h.listeners[:len(h.listeners)-1]
			break
		}
	}
}
