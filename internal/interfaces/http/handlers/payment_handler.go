package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskbridge.backend/internal/domain/entities"
	domainerrors "taskbridge.backend/internal/domain/errors"
	"taskbridge.backend/internal/interfaces/http/middleware"
	"taskbridge.backend/internal/interfaces/http/response"
	"taskbridge.backend/internal/usecases"
)

// PaymentHandler handles manual UPI payment endpoints
type PaymentHandler struct {
	paymentUsecase *usecases.PaymentUsecase
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentUsecase *usecases.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{paymentUsecase: paymentUsecase}
}

// CreateIntent creates a pending payment and returns UPI instructions
// POST /api/v1/payments/intent
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var input entities.CreateIntentInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	instructions, err := h.paymentUsecase.CreateIntent(c.Request.Context(), caller, input.TaskID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, instructions)
}

// VerifyManual verifies a pending payment against a UPI transaction ID
// POST /api/v1/payments/verify
func (h *PaymentHandler) VerifyManual(c *gin.Context) {
	var input entities.VerifyPaymentInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	payment, err := h.paymentUsecase.VerifyManual(c.Request.Context(), caller, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payment": payment})
}

// ListForTask lists every payment attempt recorded against a task
// GET /api/v1/tasks/:id/payments
func (h *PaymentHandler) ListForTask(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid task ID"))
		return
	}

	payments, err := h.paymentUsecase.ListForTask(c.Request.Context(), caller, taskID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payments": payments})
}

// WebhookRazorpay acknowledges gateway callbacks. Gateway webhooks stay
// disabled while payments are verified manually over UPI.
// POST /api/v1/payments/webhook/razorpay
func (h *PaymentHandler) WebhookRazorpay(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"success": false,
		"message": "Razorpay webhooks disabled. Using manual UPI verification.",
	})
}

// WebhookStripe acknowledges gateway callbacks, see WebhookRazorpay.
// POST /api/v1/payments/webhook/stripe
func (h *PaymentHandler) WebhookStripe(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"received": false,
		"message":  "Stripe webhooks disabled. Using manual UPI verification.",
	})
}
