package ws

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"taskbridge.backend/internal/domain/authz"
	"taskbridge.backend/internal/domain/entities"
	"taskbridge.backend/pkg/jwt"
	"taskbridge.backend/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Cross-origin browser clients carry the bearer token instead
		return true
	},
}

// Handler upgrades HTTP requests to the realtime channel
type Handler struct {
	hub        *Hub
	chat       ChatService
	jwtService *jwt.JWTService
}

// NewHandler creates a new websocket handler
func NewHandler(hub *Hub, chat ChatService, jwtService *jwt.JWTService) *Handler {
	return &Handler{
		hub:        hub,
		chat:       chat,
		jwtService: jwtService,
	}
}

// HandleConnection authenticates and upgrades the connection
// GET /api/v1/ws?token=<access token>
func (h *Handler) HandleConnection(c *gin.Context) {
	caller, ok := h.authenticate(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error(c.Request.Context(), "Websocket upgrade failed", zap.Error(err))
		return
	}

	client := NewClient(h.hub, h.chat, conn, caller)
	h.hub.register <- client

	go client.WritePump()
	go client.ReadPump()
}

// HandleStats returns live channel statistics
// GET /api/v1/ws/stats
func (h *Handler) HandleStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"clients": h.hub.ClientCount(),
	})
}

// authenticate reads the access token from the query string, falling back to
// the Authorization header for non-browser clients.
func (h *Handler) authenticate(c *gin.Context) (authz.Caller, bool) {
	token := c.Query("token")
	if token == "" {
		header := c.GetHeader("Authorization")
		token = strings.TrimPrefix(header, "Bearer ")
	}
	if token == "" {
		return authz.Caller{}, false
	}

	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		return authz.Caller{}, false
	}

	return authz.Caller{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   entities.UserRole(claims.Role),
	}, true
}
