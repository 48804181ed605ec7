package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/guidee/internal/server/http/dto"
	"github.com/polkiloo/guidee/internal/usecase"
)

const (
	webhookProcessed        = "processed"
	webhookAlreadyProcessed = "already_processed"
)

// PaymentHandler receives payment collaborator webhooks.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// Webhook handles POST /api/payments/webhook.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var req dto.PaymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid webhook payload")
		return
	}

	outcome, err := h.facade.HandlePayment(c.Request.Context(), usecase.PaymentNotice{
		OrderID:       req.OrderID,
		OrderNumber:   req.OrderNumber,
		TransactionID: req.TransactionID,
		Method:        req.Method,
		Provider:      req.Provider,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	status := webhookProcessed
	if outcome.AlreadyHandled {
		status = webhookAlreadyProcessed
	}
	c.JSON(http.StatusOK, dto.PaymentWebhookResponse{
		Status:      status,
		OrderID:     outcome.Order.ID,
		OrderNumber: outcome.Order.OrderNumber,
	})
}
