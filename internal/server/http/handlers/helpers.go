package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/guidee/internal/adapter/listing"
	domainErrors "github.com/polkiloo/guidee/internal/domain/errors"
	"github.com/polkiloo/guidee/internal/domain/model"
	"github.com/polkiloo/guidee/internal/server/http/dto"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var tooMany listing.TooManyRequestsError
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domainErrors.ErrInvalidTransition),
		errors.Is(err, domainErrors.ErrPrematureStart),
		errors.Is(err, domainErrors.ErrConflict),
		errors.Is(err, domainErrors.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrInvalidAmount),
		errors.Is(err, domainErrors.ErrInvalidPaymentData),
		errors.Is(err, domainErrors.ErrInvalidRefundAmount),
		errors.Is(err, domainErrors.ErrInvalidOrderData):
		return http.StatusUnprocessableEntity
	case errors.As(err, &tooMany):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the mapped status with a JSON body. Internal details
// of 5xx answers stay in the request log.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)

	var tooMany listing.TooManyRequestsError
	if errors.As(err, &tooMany) && tooMany.RetryAfter > 0 {
		c.Header("Retry-After", strconv.Itoa(int(tooMany.RetryAfter.Seconds())))
	}

	message := err.Error()
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		message = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: message})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: message})
}

// bindOptionalJSON decodes body into dst. An empty body leaves dst untouched.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func toOrderResponse(o model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:                    o.ID,
		OrderNumber:           o.OrderNumber,
		Version:               o.Version,
		TravelerID:            o.TravelerID,
		ProviderID:            o.ProviderID,
		ServiceID:             o.ServiceID,
		RatePerHour:           o.RatePerHour.String(),
		ServiceDate:           o.ServiceDate,
		ServiceTime:           o.ServiceTime,
		DurationHours:         o.DurationHours,
		ParticipantsCount:     o.ParticipantsCount,
		MeetingPoint:          dto.MeetingPoint(o.MeetingPoint),
		ServiceAmount:         o.ServiceAmount.String(),
		PlatformFee:           o.PlatformFee.String(),
		ProviderCommission:    o.ProviderCommission.String(),
		TotalAmount:           o.TotalAmount.String(),
		ProviderEarning:       o.ProviderEarning.String(),
		Currency:              o.Currency,
		CancellationPolicy:    string(o.CancellationPolicy),
		Status:                string(o.Status),
		ProviderResponse:      string(o.ProviderResponse),
		ProviderDeclineReason: o.ProviderDeclineReason,
		ProviderRespondedAt:   o.ProviderRespondedAt,
		ServiceStartedAt:      o.ServiceStartedAt,
		ServiceCompletedAt:    o.ServiceCompletedAt,
		CancelledAt:           o.CancelledAt,
		CancelledByUserID:     o.CancelledByUserID,
		CancellationReason:    o.CancellationReason,
		RefundProcessedAt:     o.RefundProcessedAt,
		CreatedAt:             o.CreatedAt,
		UpdatedAt:             o.UpdatedAt,
	}
	if o.TransactionID != "" {
		resp.Payment = &dto.PaymentInfo{
			Method:        o.Method,
			Provider:      o.Provider,
			TransactionID: o.TransactionID,
			PaidAt:        o.PaidAt,
		}
	}
	if o.RefundAmount != nil {
		amount := o.RefundAmount.String()
		resp.RefundAmount = &amount
	}
	return resp
}
