package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/guidee/internal/domain/model"
	"github.com/polkiloo/guidee/internal/server/http/dto"
	"github.com/polkiloo/guidee/internal/server/http/middleware"
)

// TransitionHandler exposes lifecycle transitions.
type TransitionHandler struct {
	facade TransitionFacade
}

// NewTransitionHandler constructs TransitionHandler.
func NewTransitionHandler(facade TransitionFacade) *TransitionHandler {
	return &TransitionHandler{facade: facade}
}

type plainTransition func(ctx context.Context, actor model.Actor, id string) (*model.Order, error)

type reasonedTransition func(ctx context.Context, actor model.Actor, id, reason string) (*model.Order, error)

func (h *TransitionHandler) plain(run plainTransition) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := run(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toOrderResponse(*order))
	}
}

func (h *TransitionHandler) reasoned(run reasonedTransition) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ReasonRequest
		if err := bindOptionalJSON(c, &req); err != nil {
			badRequest(c, "invalid reason payload")
			return
		}
		order, err := run(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), strings.TrimSpace(req.Reason))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toOrderResponse(*order))
	}
}

// Confirm handles POST /api/orders/:id/confirm.
func (h *TransitionHandler) Confirm(c *gin.Context) { h.plain(h.facade.Confirm)(c) }

// Decline handles POST /api/orders/:id/decline.
func (h *TransitionHandler) Decline(c *gin.Context) { h.reasoned(h.facade.Decline)(c) }

// Start handles POST /api/orders/:id/start.
func (h *TransitionHandler) Start(c *gin.Context) { h.plain(h.facade.StartService)(c) }

// Complete handles POST /api/orders/:id/complete.
func (h *TransitionHandler) Complete(c *gin.Context) { h.plain(h.facade.CompleteService)(c) }

// Cancel handles POST /api/orders/:id/cancel.
func (h *TransitionHandler) Cancel(c *gin.Context) { h.reasoned(h.facade.Cancel)(c) }

// Dispute handles POST /api/orders/:id/dispute.
func (h *TransitionHandler) Dispute(c *gin.Context) { h.reasoned(h.facade.Dispute)(c) }
