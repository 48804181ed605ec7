package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/guidee/internal/server/http/dto"
	"github.com/polkiloo/guidee/internal/server/http/middleware"
)

// RefundHandler serves refund previews and administrative actions.
type RefundHandler struct {
	facade RefundFacade
}

// NewRefundHandler constructs RefundHandler.
func NewRefundHandler(facade RefundFacade) *RefundHandler {
	return &RefundHandler{facade: facade}
}

// Preview handles GET /api/orders/:id/refund-preview.
func (h *RefundHandler) Preview(c *gin.Context) {
	quote, err := h.facade.PreviewRefund(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RefundQuoteResponse{
		Amount:            quote.Amount.String(),
		Percent:           quote.Percent.String(),
		Tier:              quote.Tier,
		HoursUntilService: quote.HoursUntilService,
	})
}

// Refund handles POST /api/admin/orders/:id/refund.
func (h *RefundHandler) Refund(c *gin.Context) {
	var req dto.RefundRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, "invalid refund payload")
		return
	}

	var amount *decimal.Decimal
	if req.Amount != nil {
		v, err := decimal.NewFromString(strings.TrimSpace(*req.Amount))
		if err != nil {
			badRequest(c, "invalid refund amount")
			return
		}
		amount = &v
	}

	order, err := h.facade.Refund(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Delete handles DELETE /api/admin/orders/:id.
func (h *RefundHandler) Delete(c *gin.Context) {
	if err := h.facade.SoftDelete(c.Request.Context(), middleware.CurrentActor(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
