package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"taskbridge.backend/internal/config"
	"taskbridge.backend/internal/domain/entities"
	"taskbridge.backend/internal/interfaces/http/middleware"
	"taskbridge.backend/internal/usecases"
	"taskbridge.backend/pkg/crypto"
	"taskbridge.backend/pkg/jwt"
)

// testEnv wires real usecases over in-memory repositories behind a router
// that mirrors the production route table.
type testEnv struct {
	router     *gin.Engine
	jwtService *jwt.JWTService

	users    *userRepoStub
	tokens   *tokenRepoStub
	tasks    *taskRepoStub
	payments *paymentRepoStub
	files    *fileRepoStub
	chats    *chatRepoStub
	analyses *analysisRepoStub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		jwtService: jwt.NewJWTService("test-secret", 15*time.Minute, 7*24*time.Hour),
		users:      newUserRepoStub(),
		tokens:     newTokenRepoStub(),
		tasks:      newTaskRepoStub(),
		payments:   newPaymentRepoStub(),
		files:      newFileRepoStub(),
		chats:      newChatRepoStub(),
		analyses:   newAnalysisRepoStub(),
	}

	authUC := usecases.NewAuthUsecase(env.users, env.tokens, env.jwtService)
	taskUC := usecases.NewTaskUsecase(env.tasks, env.payments, env.analyses, disabledAnalyzer{}, nil)
	paymentUC := usecases.NewPaymentUsecase(env.payments, env.tasks, env.users, config.UPIConfig{
		ID:   "payments@oksbi",
		Name: "TaskBridge",
	})
	fileUC := usecases.NewFileUsecase(env.tasks, env.files, nil)
	userUC := usecases.NewUserUsecase(env.users, env.tasks, env.payments)
	chatUC := usecases.NewChatUsecase(env.tasks, env.chats)

	authHandler := NewAuthHandler(authUC)
	taskHandler := NewTaskHandler(taskUC)
	paymentHandler := NewPaymentHandler(paymentUC)
	fileHandler := NewFileHandler(fileUC)
	userHandler := NewUserHandler(userUC)
	chatHandler := NewChatHandler(chatUC)

	r := gin.New()
	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", middleware.OptionalAuthMiddleware(env.jwtService), authHandler.Logout)

	v1.POST("/payments/webhook/razorpay", paymentHandler.WebhookRazorpay)
	v1.POST("/payments/webhook/stripe", paymentHandler.WebhookStripe)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(env.jwtService))
	protected.GET("/auth/me", authHandler.Me)

	protected.POST("/tasks", taskHandler.Create)
	protected.GET("/tasks", taskHandler.List)
	protected.GET("/tasks/my", taskHandler.ListOwn)
	protected.GET("/tasks/:id", taskHandler.Get)
	protected.POST("/tasks/:id/accept", taskHandler.Accept)
	protected.POST("/tasks/:id/counter-offer", taskHandler.CounterOffer)
	protected.POST("/tasks/:id/complete", taskHandler.Complete)
	protected.PATCH("/tasks/:id/status", taskHandler.OverrideStatus)

	protected.POST("/payments/intent", paymentHandler.CreateIntent)
	protected.POST("/payments/verify", paymentHandler.VerifyManual)
	protected.GET("/tasks/:id/payments", paymentHandler.ListForTask)

	protected.POST("/tasks/:id/files", fileHandler.Upload)
	protected.GET("/tasks/:id/files", fileHandler.List)
	protected.GET("/tasks/:id/files/:fileId/download", fileHandler.Download)
	protected.GET("/tasks/:id/files/:fileId/url", fileHandler.SignedURL)

	protected.GET("/tasks/:id/messages", chatHandler.History)

	protected.GET("/users/profile", userHandler.Profile)
	protected.GET("/admin/stats", userHandler.AdminStats)

	env.router = r
	return env
}

// seedUser creates a user directly in the stub and returns a bearer token
func (e *testEnv) seedUser(t *testing.T, email string, role entities.UserRole) (*entities.User, string) {
	t.Helper()
	hash, err := crypto.HashPassword("password123")
	require.NoError(t, err)

	user := &entities.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         "Test User",
		PasswordHash: hash,
		Role:         role,
		Region:       entities.RegionIndia,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, e.users.Create(context.Background(), user))

	pair, err := e.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	require.NoError(t, err)
	return user, pair.AccessToken
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body=%s", w.Body.String())
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "body=%s", w.Body.String())
}
