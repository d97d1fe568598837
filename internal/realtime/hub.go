// File: internal/realtime/hub.go
package realtime

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Table names carried in change events. Dashboard clients refetch the
// matching screen when the version for a table moves.
const (
	TableVerifications = "verification_requests"
	TableListings      = "service_listings"
)

// Actions carried in change events.
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Event is the wire format of a change notification. Version is a per-table
// monotonic counter so clients can detect missed events after a reconnect.
type Event struct {
	Table   string `json:"table"`
	Action  string `json:"action"`
	ID      string `json:"id"`
	Version uint64 `json:"version"`
}

// Publisher is the interface domain services use to announce data changes.
type Publisher interface {
	Publish(table, action, id string)
}

// Hub fans change events out to every connected dashboard client.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	closeOnce  sync.Once
	versions   map[string]*atomic.Uint64
	logger     *zap.Logger
}

var _ Publisher = (*Hub)(nil)

// NewHub creates a hub with version counters for the known tables.
func NewHub(logger *zap.Logger) *Hub {
	versions := map[string]*atomic.Uint64{
		TableVerifications: {},
		TableListings:      {},
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		versions:   versions,
		logger:     logger.Named("realtime_hub"),
	}
}

// Run drives the hub's main loop until Stop is called. Intended to run in its
// own goroutine started by the server.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case payload := <-h.broadcast:
			h.send(payload)
		case <-h.done:
			h.closeAll()
			return
		}
	}
}

// Stop shuts the hub down and disconnects every client.
func (h *Hub) Stop() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.closeConn()
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish increments the table's version counter and broadcasts the change to
// all connected clients. Unknown table names are dropped with a warning so a
// typo never panics the caller.
func (h *Hub) Publish(table, action, id string) {
	counter, ok := h.versions[table]
	if !ok {
		h.logger.Warn("Publish for unknown table dropped", zap.String("table", table))
		return
	}
	event := Event{
		Table:   table,
		Action:  action,
		ID:      id,
		Version: counter.Add(1),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to marshal change event", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- payload:
	case <-h.done:
	default:
		// The broadcast buffer is full. Dropping is safe: clients treat
		// events as refetch hints and reconcile via the version counter.
		h.logger.Warn("Broadcast buffer full, change event dropped",
			zap.String("table", table), zap.String("action", action))
	}
}

// Version returns the current counter for a table.
func (h *Hub) Version(table string) uint64 {
	counter, ok := h.versions[table]
	if !ok {
		return 0
	}
	return counter.Load()
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
	h.logger.Debug("Client registered", zap.Int("total_clients", len(h.clients)))
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.logger.Debug("Client unregistered", zap.Int("total_clients", len(h.clients)))
}

func (h *Hub) send(payload []byte) {
	h.mu.RLock()
	var slow []*Client
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			// A client that cannot keep up is disconnected rather than
			// allowed to stall the hub.
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("Disconnecting slow websocket client")
		h.removeClient(client)
		client.closeConn()
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
		client.closeConn()
	}
}
