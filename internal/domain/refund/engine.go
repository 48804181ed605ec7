package refund

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/guidee/internal/domain/errors"
	"github.com/polkiloo/guidee/internal/domain/model"
)

// Engine quotes refunds for orders using their snapshotted policy variant.
type Engine struct {
	policies  Policies
	precision int32
	location  *time.Location
}

// NewEngine constructs Engine. A nil location means UTC.
func NewEngine(policies Policies, precision int32, location *time.Location) *Engine {
	if policies == nil {
		policies = DefaultPolicies(nil)
	}
	if location == nil {
		location = time.UTC
	}
	return &Engine{policies: policies, precision: precision, location: location}
}

// ComputeRefundAmount applies the standard table to total.
func (e *Engine) ComputeRefundAmount(total decimal.Decimal, serviceAt, now time.Time) decimal.Decimal {
	return e.policies.For(model.CancellationPolicyStandard).Compute(total, serviceAt, now, e.precision).Amount
}

// Quote computes the refund of the order total as seen at now.
func (e *Engine) Quote(order model.Order, now time.Time) (Quote, error) {
	serviceAt, err := order.ServiceDateTime(e.location)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: schedule: %v", domainErrors.ErrInvalidOrderData, err)
	}
	return e.policies.For(order.CancellationPolicy).Compute(order.TotalAmount, serviceAt, now, e.precision), nil
}

// Location returns the zone used to interpret schedules.
func (e *Engine) Location() *time.Location {
	return e.location
}

// Precision returns the number of decimal places refund amounts carry.
func (e *Engine) Precision() int32 {
	return e.precision
}
