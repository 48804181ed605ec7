package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/guidee/internal/domain/model"
	"github.com/polkiloo/guidee/internal/domain/repository"
	"github.com/polkiloo/guidee/internal/server/http/dto"
	"github.com/polkiloo/guidee/internal/server/http/middleware"
	"github.com/polkiloo/guidee/internal/usecase"
)

// OrderHandler manages order creation and reads.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid booking payload")
		return
	}

	order, err := h.facade.Book(c.Request.Context(), middleware.CurrentActor(c), usecase.BookingRequest{
		ServiceID:         req.ServiceID,
		ServiceDate:       req.ServiceDate,
		ServiceTime:       req.ServiceTime,
		DurationHours:     req.DurationHours,
		ParticipantsCount: req.ParticipantsCount,
		MeetingPoint:      model.MeetingPoint(req.MeetingPoint),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	filter := repository.OrderFilter{
		Status: model.OrderStatus(strings.ToUpper(strings.TrimSpace(c.Query("status")))),
	}
	var err error
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		badRequest(c, "invalid limit")
		return
	}
	if filter.Offset, err = queryInt(c, "offset"); err != nil {
		badRequest(c, "invalid offset")
		return
	}

	orders, err := h.facade.Orders(c.Request.Context(), middleware.CurrentActor(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Events handles GET /api/orders/:id/events.
func (h *OrderHandler) Events(c *gin.Context) {
	events, err := h.facade.Events(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]dto.EventResponse, 0, len(events))
	for _, e := range events {
		response = append(response, dto.EventResponse{
			Operation:  e.Operation,
			FromStatus: string(e.FromStatus),
			ToStatus:   string(e.ToStatus),
			ActorID:    e.ActorID,
			Detail:     e.Detail,
			OccurredAt: e.OccurredAt,
		})
	}
	c.JSON(http.StatusOK, response)
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}
