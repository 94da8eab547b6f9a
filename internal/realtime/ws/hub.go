package ws

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/minigolf-go/internal/model"
	"github.com/mcoot/minigolf-go/internal/services/session"
)

// Observer sees every room-level emission. The SSE spectator feed hooks in
// here.
type Observer interface {
	Publish(roomID model.RoomID, event model.EventType, data []byte)
}

// Hub tracks websocket clients and the broadcast group each belongs to. It
// is the session.Emitter of the running server.
type Hub struct {
	clients  map[model.ConnID]*Client
	groups   map[model.RoomID]map[model.ConnID]*Client
	observer Observer
	mu       sync.RWMutex
	logger   *slog.Logger
}

var _ session.Emitter = (*Hub)(nil)

// NewHub creates a new Hub. observer may be nil.
func NewHub(observer Observer, logger *slog.Logger) *Hub {
	return &Hub{
		clients:  make(map[model.ConnID]*Client),
		groups:   make(map[model.RoomID]map[model.ConnID]*Client),
		observer: observer,
		logger:   logger.With(slog.String("component", "ws")),
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("ws client registered",
		slog.String("conn_id", string(client.id)),
		slog.Int("total_clients", clientCount))
}

// Unregister removes a client from the hub and every group, and closes its
// send queue
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if current, ok := h.clients[client.id]; !ok || current != client {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.id)
	for roomID, members := range h.groups {
		delete(members, client.id)
		if len(members) == 0 {
			delete(h.groups, roomID)
		}
	}
	client.closeSend()
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("ws client unregistered",
		slog.String("conn_id", string(client.id)),
		slog.Duration("connection_duration", time.Since(client.connectedAt)),
		slog.Int("total_clients", clientCount))
}

// JoinGroup adds a connection to a room's broadcast group
func (h *Hub) JoinGroup(id model.ConnID, roomID model.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[id]
	if !ok {
		return
	}
	if h.groups[roomID] == nil {
		h.groups[roomID] = make(map[model.ConnID]*Client)
	}
	h.groups[roomID][id] = client
}

// LeaveGroup removes a connection from a room's broadcast group
func (h *Hub) LeaveGroup(id model.ConnID, roomID model.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.groups[roomID]
	if !ok {
		return
	}
	delete(members, id)
	if len(members) == 0 {
		delete(h.groups, roomID)
	}
}

// Emit sends an event to a single connection
func (h *Hub) Emit(to model.ConnID, event model.EventType, payload any) {
	frame, _, ok := h.encode(event, payload)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if client, ok := h.clients[to]; ok {
		h.enqueue(client, frame)
	}
}

// EmitToRoom sends an event to every connection in a room
func (h *Hub) EmitToRoom(roomID model.RoomID, event model.EventType, payload any) {
	h.EmitToRoomExcept(roomID, "", event, payload)
}

// EmitToRoomExcept sends an event to every connection in a room but one
func (h *Hub) EmitToRoomExcept(roomID model.RoomID, except model.ConnID, event model.EventType, payload any) {
	frame, data, ok := h.encode(event, payload)
	if !ok {
		return
	}

	h.mu.RLock()
	sentCount := 0
	droppedCount := 0
	for id, client := range h.groups[roomID] {
		if id == except {
			continue
		}
		if h.enqueue(client, frame) {
			sentCount++
		} else {
			droppedCount++
		}
	}
	h.mu.RUnlock()

	if droppedCount > 0 {
		h.logger.Warn("ws broadcast partial failure",
			slog.String("room_id", string(roomID)),
			slog.Int("sent", sentCount),
			slog.Int("dropped", droppedCount))
	}

	if h.observer != nil {
		h.observer.Publish(roomID, event, data)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GroupSize returns the number of connections in a room's broadcast group
func (h *Hub) GroupSize(roomID model.RoomID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[roomID])
}

// CloseAll drops every connection. Hijacked connections are not closed by
// http.Server.Shutdown, so the server calls this on the way out.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		_ = c.conn.Close()
	}
	h.logger.Info("ws hub closed", slog.Int("disconnected_clients", len(clients)))
}

func (h *Hub) encode(event model.EventType, payload any) (frame, data []byte, ok bool) {
	frame, data, err := encodeEnvelope(event, payload)
	if err != nil {
		h.logger.Error("ws encode failed",
			slog.String("event", string(event)),
			slog.Any("error", err))
		return nil, nil, false
	}
	return frame, data, true
}

// enqueue never blocks. Callers hold at least the read lock, so the send
// channel cannot be closed underneath it.
func (h *Hub) enqueue(client *Client, frame []byte) bool {
	select {
	case client.send <- frame:
		return true
	default:
		h.logger.Warn("ws message dropped - client buffer full",
			slog.String("conn_id", string(client.id)))
		return false
	}
}
