package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"taskbridge.backend/internal/domain/authz"
	"taskbridge.backend/internal/domain/entities"
	"taskbridge.backend/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// ChatService is the slice of the chat usecase the realtime layer needs
type ChatService interface {
	SendMessage(ctx context.Context, caller authz.Caller, taskID uuid.UUID, content string) (*entities.ChatMessage, error)
	History(ctx context.Context, caller authz.Caller, taskID uuid.UUID) ([]*entities.ChatMessage, error)
}

// Client represents one authenticated websocket connection
type Client struct {
	id     string
	caller authz.Caller
	hub    *Hub
	chat   ChatService
	conn   *websocket.Conn
	send   chan []byte
	rooms  map[string]bool
}

// NewClient creates a new client for an upgraded connection
func NewClient(hub *Hub, chat ChatService, conn *websocket.Conn, caller authz.Caller) *Client {
	return &Client{
		id:     uuid.New().String(),
		caller: caller,
		hub:    hub,
		chat:   chat,
		conn:   conn,
		send:   make(chan []byte, 256),
		rooms:  make(map[string]bool),
	}
}

// ReadPump pumps frames from the connection into the hub
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error(context.Background(), "Realtime read error",
					zap.String("client_id", c.id), zap.Error(err))
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warn(context.Background(), "Invalid realtime frame",
				zap.String("client_id", c.id), zap.Error(err))
			continue
		}

		msg.From = c.id
		msg.Sender = c.caller.Email
		msg.Timestamp = time.Now()

		c.handleMessage(&msg)
	}
}

// WritePump pumps frames from the hub to the connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg *Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch msg.Type {
	case MessageTypeJoin:
		c.handleJoin(ctx, msg)

	case MessageTypeLeave:
		if msg.Room != "" {
			c.hub.LeaveRoom(c, msg.Room)
		}

	case MessageTypeChat:
		c.handleChat(ctx, msg)

	case MessageTypeShareStart, MessageTypeShareStop,
		MessageTypeSignalOffer, MessageTypeSignalAnswer, MessageTypeSignalCandidate:
		// Relayed to the room only when the sender has actually joined it;
		// nothing is persisted.
		if c.rooms[msg.Room] {
			c.hub.Broadcast(msg)
		}

	case MessageTypePing:
		c.reply(&Message{Type: MessageTypePong, Timestamp: time.Now()})
	}
}

// handleJoin authorizes room access through the chat usecase and backfills
// history to the joining client.
func (c *Client) handleJoin(ctx context.Context, msg *Message) {
	taskID, err := uuid.Parse(msg.Room)
	if err != nil {
		c.replyError("Invalid room")
		return
	}

	history, err := c.chat.History(ctx, c.caller, taskID)
	if err != nil {
		c.replyError("Access denied")
		return
	}

	c.hub.JoinRoom(c, msg.Room)

	raw, err := json.Marshal(history)
	if err != nil {
		return
	}
	var messages []any
	_ = json.Unmarshal(raw, &messages)
	c.reply(&Message{
		Type:      MessageTypeJoin,
		Room:      msg.Room,
		Data:      map[string]any{"messages": messages},
		Timestamp: time.Now(),
	})
}

func (c *Client) handleChat(ctx context.Context, msg *Message) {
	if !c.rooms[msg.Room] {
		c.replyError("Join the room first")
		return
	}

	taskID, err := uuid.Parse(msg.Room)
	if err != nil {
		c.replyError("Invalid room")
		return
	}

	saved, err := c.chat.SendMessage(ctx, c.caller, taskID, msg.Content)
	if err != nil {
		c.replyError("Message rejected")
		return
	}

	c.hub.Broadcast(&Message{
		Type:      MessageTypeChat,
		Room:      msg.Room,
		From:      c.id,
		Sender:    saved.SenderEmail,
		Content:   saved.Content,
		Data:      map[string]any{"id": saved.ID.String()},
		Timestamp: saved.CreatedAt,
	})
}

func (c *Client) reply(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) replyError(reason string) {
	c.reply(&Message{Type: MessageTypeError, Content: reason, Timestamp: time.Now()})
}
