// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/tidewatch/internal/logging"
	"github.com/tomtom215/tidewatch/internal/metrics"
	"github.com/tomtom215/tidewatch/internal/models"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types.
const (
	MessageTypeAnomaly = "anomaly"
	MessageTypePing    = "ping"
	MessageTypePong    = "pong"
)

const broadcastBuffer = 256

// Message is the JSON frame written to clients.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex

	// done is closed once Serve has returned; sends on Register and
	// Unregister must select on it.
	done     chan struct{}
	doneOnce sync.Once
}

// NewHub creates an idle hub. Call Serve to start it.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, broadcastBuffer),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
	}
}

// Done is closed when the hub has stopped serving.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// unregister hands client back to the hub. It returns without blocking once
// the hub has stopped.
func (h *Hub) unregister(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

// Serve runs the hub until ctx is canceled, then closes every client.
//
// Lifecycle events are drained before broadcasts so a client registered just
// before a broadcast receives it.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.stop(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.add(client)
			continue
		case client := <-h.Unregister:
			h.remove(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.stop(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.add(client)
		case client := <-h.Unregister:
			h.remove(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

// String names the hub for supervisor logs.
func (h *Hub) String() string { return "websocket-hub" }

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	n := len(h.clients)
	h.mu.Unlock()
	metrics.WebSocketConnections.Set(float64(n))
	logging.Info().Int("total_clients", n).Msg("websocket client connected")
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.WebSocketConnections.Set(float64(n))
	logging.Info().Int("total_clients", n).Msg("websocket client disconnected")
}

func (h *Hub) stop(ctx context.Context) {
	h.doneOnce.Do(func() { close(h.done) })
	h.shutdown(ctx)
}

func (h *Hub) shutdown(ctx context.Context) {
	n := h.ClientCount()
	h.closeAllClients()
	logging.Info().
		Str("component", h.String()).
		Str("reason", string(shutdownReason(ctx))).
		Int("clients_closed", n).
		Msg("websocket hub stopped")
}

func shutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// sortedClients must be called with h.mu held.
func (h *Hub) sortedClients() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// broadcastToClients delivers in client id order and drops clients whose
// send buffer is full.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	var dropped []*Client
	for _, client := range h.sortedClients() {
		select {
		case client.send <- message:
		default:
			dropped = append(dropped, client)
		}
	}
	for _, client := range dropped {
		close(client.send)
		delete(h.clients, client)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if len(dropped) > 0 {
		metrics.WebSocketConnections.Set(float64(n))
		logging.Warn().Int("dropped", len(dropped)).Msg("dropped slow websocket clients")
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, client := range h.sortedClients() {
		close(client.send)
		delete(h.clients, client)
	}
	metrics.WebSocketConnections.Set(0)
}

// BroadcastAnomaly queues a for every connected client. It never blocks;
// when the broadcast buffer is full the message is dropped.
func (h *Hub) BroadcastAnomaly(a *models.Anomaly) bool {
	return h.enqueue(Message{Type: MessageTypeAnomaly, Data: a})
}

func (h *Hub) enqueue(message Message) bool {
	select {
	case h.broadcast <- message:
		return true
	default:
		logging.Warn().Str("message_type", message.Type).Msg("broadcast channel full, dropping message")
		return false
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
