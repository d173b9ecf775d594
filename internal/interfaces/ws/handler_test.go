package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"taskbridge.backend/internal/domain/authz"
	"taskbridge.backend/internal/domain/entities"
	domainerrors "taskbridge.backend/internal/domain/errors"
	"taskbridge.backend/pkg/jwt"
	"taskbridge.backend/pkg/logger"
)

func init() {
	logger.Init("development")
}

// chatServiceStub enforces ownership like the real usecase: only the task
// owner and admins may read or post.
type chatServiceStub struct {
	mu       sync.Mutex
	ownerID  uuid.UUID
	taskID   uuid.UUID
	messages []*entities.ChatMessage
}

func (s *chatServiceStub) allowed(caller authz.Caller) bool {
	return caller.IsAdmin() || caller.UserID == s.ownerID
}

func (s *chatServiceStub) SendMessage(_ context.Context, caller authz.Caller, taskID uuid.UUID, content string) (*entities.ChatMessage, error) {
	if taskID != s.taskID {
		return nil, domainerrors.ErrNotFound
	}
	if !s.allowed(caller) {
		return nil, domainerrors.ErrForbidden
	}
	if strings.TrimSpace(content) == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	msg := &entities.ChatMessage{
		ID:          uuid.New(),
		TaskID:      taskID,
		SenderID:    caller.UserID,
		SenderEmail: caller.Email,
		Content:     strings.TrimSpace(content),
		CreatedAt:   time.Now(),
	}
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
	return msg, nil
}

func (s *chatServiceStub) History(_ context.Context, caller authz.Caller, taskID uuid.UUID) ([]*entities.ChatMessage, error) {
	if taskID != s.taskID {
		return nil, domainerrors.ErrNotFound
	}
	if !s.allowed(caller) {
		return nil, domainerrors.ErrForbidden
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entities.ChatMessage{}, s.messages...), nil
}

type wsEnv struct {
	server     *httptest.Server
	jwtService *jwt.JWTService
	chat       *chatServiceStub
	cancel     context.CancelFunc
}

func newWSEnv(t *testing.T) *wsEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	chat := &chatServiceStub{ownerID: uuid.New(), taskID: uuid.New()}
	jwtService := jwt.NewJWTService("test-secret", time.Minute, time.Hour)

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	handler := NewHandler(hub, chat, jwtService)
	r := gin.New()
	r.GET("/ws", handler.HandleConnection)
	r.GET("/ws/stats", handler.HandleStats)

	server := httptest.NewServer(r)
	t.Cleanup(func() {
		server.Close()
		cancel()
	})

	return &wsEnv{server: server, jwtService: jwtService, chat: chat, cancel: cancel}
}

func (e *wsEnv) dial(t *testing.T, userID uuid.UUID, email, role string) *websocket.Conn {
	t.Helper()
	pair, err := e.jwtService.GenerateTokenPair(userID, email, role)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/ws?token=" + pair.AccessToken
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) *Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return &msg
}

func sendFrame(t *testing.T, conn *websocket.Conn, msg *Message) {
	t.Helper()
	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, raw))
}

func TestHandler_RejectsBadToken(t *testing.T) {
	env := newWSEnv(t)

	url := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/ws?token=garbage"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestClient_JoinBackfillsHistory(t *testing.T) {
	env := newWSEnv(t)
	room := env.chat.taskID.String()

	_, err := env.chat.SendMessage(context.Background(), authz.Caller{
		UserID: env.chat.ownerID,
		Email:  "owner@taskbridge.dev",
		Role:   entities.UserRoleUser,
	}, env.chat.taskID, "earlier message")
	require.NoError(t, err)

	conn := env.dial(t, env.chat.ownerID, "owner@taskbridge.dev", "USER")
	sendFrame(t, conn, &Message{Type: MessageTypeJoin, Room: room})

	frame := readFrame(t, conn)
	require.Equal(t, MessageTypeJoin, frame.Type)
	require.Equal(t, room, frame.Room)

	messages, ok := frame.Data["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
}

func TestClient_JoinDeniedForStranger(t *testing.T) {
	env := newWSEnv(t)

	conn := env.dial(t, uuid.New(), "stranger@taskbridge.dev", "USER")
	sendFrame(t, conn, &Message{Type: MessageTypeJoin, Room: env.chat.taskID.String()})

	frame := readFrame(t, conn)
	require.Equal(t, MessageTypeError, frame.Type)
	require.Equal(t, "Access denied", frame.Content)
}

func TestClient_ChatPersistsAndBroadcasts(t *testing.T) {
	env := newWSEnv(t)
	room := env.chat.taskID.String()

	owner := env.dial(t, env.chat.ownerID, "owner@taskbridge.dev", "USER")
	admin := env.dial(t, uuid.New(), "admin@taskbridge.dev", "ADMIN")

	sendFrame(t, owner, &Message{Type: MessageTypeJoin, Room: room})
	readFrame(t, owner)
	sendFrame(t, admin, &Message{Type: MessageTypeJoin, Room: room})
	readFrame(t, admin)

	sendFrame(t, owner, &Message{Type: MessageTypeChat, Room: room, Content: "hello admin"})

	// Both room members receive the chat frame, sender included
	ownerFrame := readFrame(t, owner)
	require.Equal(t, MessageTypeChat, ownerFrame.Type)
	require.Equal(t, "hello admin", ownerFrame.Content)
	require.Equal(t, "owner@taskbridge.dev", ownerFrame.Sender)

	adminFrame := readFrame(t, admin)
	require.Equal(t, MessageTypeChat, adminFrame.Type)
	require.Equal(t, "hello admin", adminFrame.Content)

	// And the message is persisted
	env.chat.mu.Lock()
	defer env.chat.mu.Unlock()
	require.Len(t, env.chat.messages, 1)
}

func TestClient_ChatRequiresJoin(t *testing.T) {
	env := newWSEnv(t)

	conn := env.dial(t, env.chat.ownerID, "owner@taskbridge.dev", "USER")
	sendFrame(t, conn, &Message{Type: MessageTypeChat, Room: env.chat.taskID.String(), Content: "hi"})

	frame := readFrame(t, conn)
	require.Equal(t, MessageTypeError, frame.Type)
}

func TestClient_SignalingRelayedToPeersOnly(t *testing.T) {
	env := newWSEnv(t)
	room := env.chat.taskID.String()

	owner := env.dial(t, env.chat.ownerID, "owner@taskbridge.dev", "USER")
	admin := env.dial(t, uuid.New(), "admin@taskbridge.dev", "ADMIN")

	sendFrame(t, owner, &Message{Type: MessageTypeJoin, Room: room})
	readFrame(t, owner)
	sendFrame(t, admin, &Message{Type: MessageTypeJoin, Room: room})
	readFrame(t, admin)

	sendFrame(t, owner, &Message{
		Type: MessageTypeSignalOffer,
		Room: room,
		Data: map[string]any{"sdp": "offer-blob"},
	})

	// The peer receives the offer
	frame := readFrame(t, admin)
	require.Equal(t, MessageTypeSignalOffer, frame.Type)
	require.Equal(t, "offer-blob", frame.Data["sdp"])

	// The sender does not get its own offer back; the next frame it sees
	// is the answer from the peer.
	sendFrame(t, admin, &Message{
		Type: MessageTypeSignalAnswer,
		Room: room,
		Data: map[string]any{"sdp": "answer-blob"},
	})
	frame = readFrame(t, owner)
	require.Equal(t, MessageTypeSignalAnswer, frame.Type)
	require.Equal(t, "answer-blob", frame.Data["sdp"])
}

func TestClient_PingPong(t *testing.T) {
	env := newWSEnv(t)

	conn := env.dial(t, env.chat.ownerID, "owner@taskbridge.dev", "USER")
	sendFrame(t, conn, &Message{Type: MessageTypePing})

	frame := readFrame(t, conn)
	require.Equal(t, MessageTypePong, frame.Type)
}
