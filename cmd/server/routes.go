package main

import (
	"github.com/gin-gonic/gin"

	"taskbridge.backend/internal/domain/entities"
	"taskbridge.backend/internal/interfaces/http/handlers"
	"taskbridge.backend/internal/interfaces/http/middleware"
	"taskbridge.backend/internal/interfaces/ws"
)

type routeDeps struct {
	authHandler    *handlers.AuthHandler
	taskHandler    *handlers.TaskHandler
	paymentHandler *handlers.PaymentHandler
	fileHandler    *handlers.FileHandler
	userHandler    *handlers.UserHandler
	chatHandler    *handlers.ChatHandler
	wsHandler              *ws.Handler
	authMiddleware         gin.HandlerFunc
	optionalAuthMiddleware gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.Refresh)
			auth.POST("/logout", d.optionalAuthMiddleware, d.authHandler.Logout)
			auth.GET("/me", d.authMiddleware, d.authHandler.Me)
		}

		// Task routes (protected)
		tasks := v1.Group("/tasks")
		tasks.Use(d.authMiddleware)
		{
			tasks.POST("", d.taskHandler.Create)
			tasks.GET("", d.taskHandler.List)
			tasks.GET("/my", d.taskHandler.ListOwn)
			tasks.GET("/:id", d.taskHandler.Get)
			tasks.POST("/:id/accept", d.taskHandler.Accept)
			tasks.POST("/:id/counter-offer", d.taskHandler.CounterOffer)
			tasks.POST("/:id/complete", d.taskHandler.Complete)
			tasks.PATCH("/:id/status", d.taskHandler.OverrideStatus)

			tasks.GET("/:id/payments", d.paymentHandler.ListForTask)

			tasks.POST("/:id/files", d.fileHandler.Upload)
			tasks.GET("/:id/files", d.fileHandler.List)
			tasks.GET("/:id/files/:fileId/download", d.fileHandler.Download)
			tasks.GET("/:id/files/:fileId/url", d.fileHandler.SignedURL)

			tasks.GET("/:id/messages", d.chatHandler.History)
		}

		// Gateway webhooks are unauthenticated, the gateways call them
		v1.POST("/payments/webhook/razorpay", d.paymentHandler.WebhookRazorpay)
		v1.POST("/payments/webhook/stripe", d.paymentHandler.WebhookStripe)

		// Payment routes (protected)
		payments := v1.Group("/payments")
		payments.Use(d.authMiddleware)
		{
			payments.POST("/intent", middleware.IdempotencyMiddleware(), d.paymentHandler.CreateIntent)
			payments.POST("/verify", d.paymentHandler.VerifyManual)
		}

		// User routes (protected)
		users := v1.Group("/users")
		users.Use(d.authMiddleware)
		{
			users.GET("/profile", d.userHandler.Profile)
		}

		// Admin routes (protected, admin only)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireRole(string(entities.UserRoleAdmin)))
		{
			admin.GET("/stats", d.userHandler.AdminStats)
		}

		// Realtime channel: authentication happens inside the handler, the
		// browser websocket API cannot set an Authorization header.
		v1.GET("/ws", d.wsHandler.HandleConnection)
		v1.GET("/ws/stats", d.authMiddleware, d.wsHandler.HandleStats)
	}
}
