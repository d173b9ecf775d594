// Package ws implements the realtime channel attached to each task: chat
// messages (persisted) and screen-share signaling frames (relayed only).
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"taskbridge.backend/pkg/logger"
)

// MessageType defines the frame types exchanged on a task channel
type MessageType string

const (
	// Room membership
	MessageTypeJoin  MessageType = "join"
	MessageTypeLeave MessageType = "leave"

	// Chat: persisted through the chat usecase before broadcast
	MessageTypeChat MessageType = "chat"

	// Screen-share signaling: relayed verbatim to the rest of the room
	MessageTypeShareStart  MessageType = "share-start"
	MessageTypeShareStop   MessageType = "share-stop"
	MessageTypeSignalOffer MessageType = "signal-offer"
	MessageTypeSignalAnswer MessageType = "signal-answer"
	MessageTypeSignalCandidate MessageType = "signal-candidate"

	MessageTypeError MessageType = "error"
	MessageTypePing  MessageType = "ping"
	MessageTypePong  MessageType = "pong"
)

// Message is one frame on the wire. Room is always the task ID.
type Message struct {
	Type      MessageType    `json:"type"`
	Room      string         `json:"room,omitempty"`
	From      string         `json:"from,omitempty"`
	Sender    string         `json:"sender,omitempty"`
	Content   string         `json:"content,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Hub maintains active clients and routes frames to task rooms
type Hub struct {
	clients    map[*Client]bool
	rooms      map[string]map[*Client]bool
	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes registrations and broadcasts until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.Debug(ctx, "Realtime client connected", zap.String("client_id", client.id))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				for room, clients := range h.rooms {
					if clients[client] {
						delete(clients, client)
						if len(clients) == 0 {
							delete(h.rooms, room)
						}
					}
				}
				close(client.send)
			}
			h.mu.Unlock()
			logger.Debug(ctx, "Realtime client disconnected", zap.String("client_id", client.id))

		case message := <-h.broadcast:
			h.broadcastToRoom(ctx, message)
		}
	}
}

// Broadcast queues a frame for delivery to its room
func (h *Hub) Broadcast(message *Message) {
	select {
	case h.broadcast <- message:
	default:
		logger.Warn(context.Background(), "Realtime broadcast queue full",
			zap.String("room", message.Room), zap.String("type", string(message.Type)))
	}
}

func (h *Hub) broadcastToRoom(ctx context.Context, message *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.Marshal(message)
	if err != nil {
		logger.Error(ctx, "Failed to marshal realtime frame", zap.Error(err))
		return
	}

	clients, ok := h.rooms[message.Room]
	if !ok {
		return
	}
	for client := range clients {
		// Signaling frames go to everyone but the sender; a peer answering
		// its own offer would wedge the share session.
		if message.From == client.id && message.Type != MessageTypeChat {
			continue
		}
		select {
		case client.send <- data:
		default:
			logger.Warn(ctx, "Realtime client send buffer full", zap.String("client_id", client.id))
		}
	}
}

// JoinRoom adds a client to a task room
func (h *Hub) JoinRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
	client.rooms[room] = true
}

// LeaveRoom removes a client from a task room
func (h *Hub) LeaveRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.rooms[room]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(client.rooms, room)
}

// RoomSize reports how many clients currently occupy a room
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// ClientCount reports the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
