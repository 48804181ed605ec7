// Package pricing derives the money decomposition of a booking from its snapshot terms.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/guidee/internal/domain/errors"
	"github.com/polkiloo/guidee/internal/domain/model"
)

// Rates configures the calculator.
type Rates struct {
	// PlatformFee is charged to the traveler on top of the service amount.
	PlatformFee decimal.Decimal
	// Commission is withheld from the provider's share of the service amount.
	Commission decimal.Decimal
	// Precision is the number of currency decimal places.
	Precision int32
}

// DefaultRates returns 5% platform fee, 15% commission, 2 decimal places.
func DefaultRates() Rates {
	return Rates{
		PlatformFee: decimal.RequireFromString("0.05"),
		Commission:  decimal.RequireFromString("0.15"),
		Precision:   2,
	}
}

// Validate checks rates keep the amount invariants satisfiable.
func (r Rates) Validate() error {
	if r.PlatformFee.IsNegative() {
		return fmt.Errorf("platform fee rate must not be negative: %s", r.PlatformFee)
	}
	if r.Commission.IsNegative() || r.Commission.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("commission rate must be within [0, 1]: %s", r.Commission)
	}
	if r.Precision < 0 || r.Precision > 8 {
		return fmt.Errorf("currency precision must be within [0, 8]: %d", r.Precision)
	}
	return nil
}

// Calculator computes order amounts with fixed rates.
type Calculator struct {
	rates Rates
}

// NewCalculator constructs Calculator after validating rates.
func NewCalculator(rates Rates) (*Calculator, error) {
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{rates: rates}, nil
}

// Compute derives service subtotal, fee, commission, total and provider earning.
func (c *Calculator) Compute(ratePerHour decimal.Decimal, durationHours int) (model.Amounts, error) {
	if !ratePerHour.IsPositive() {
		return model.Amounts{}, fmt.Errorf("%w: rate per hour must be positive", domainErrors.ErrInvalidAmount)
	}
	if durationHours <= 0 {
		return model.Amounts{}, fmt.Errorf("%w: duration must be positive", domainErrors.ErrInvalidAmount)
	}

	p := c.rates.Precision
	service := ratePerHour.Mul(decimal.NewFromInt(int64(durationHours))).Round(p)
	fee := service.Mul(c.rates.PlatformFee).Round(p)
	commission := service.Mul(c.rates.Commission).Round(p)

	amounts := model.Amounts{
		ServiceAmount:      service,
		PlatformFee:        fee,
		ProviderCommission: commission,
		TotalAmount:        service.Add(fee),
		ProviderEarning:    service.Sub(commission),
	}
	if err := Verify(amounts); err != nil {
		return model.Amounts{}, err
	}
	return amounts, nil
}

// Verify checks the amount invariants of an order.
func Verify(a model.Amounts) error {
	switch {
	case a.ServiceAmount.IsNegative(), a.PlatformFee.IsNegative(), a.ProviderCommission.IsNegative():
		return fmt.Errorf("%w: negative component", domainErrors.ErrInvalidAmount)
	case a.ProviderCommission.GreaterThan(a.ServiceAmount):
		return fmt.Errorf("%w: commission exceeds service amount", domainErrors.ErrInvalidAmount)
	case !a.TotalAmount.Equal(a.ServiceAmount.Add(a.PlatformFee)):
		return fmt.Errorf("%w: total != service + fee", domainErrors.ErrInvalidAmount)
	case !a.ProviderEarning.Equal(a.ServiceAmount.Sub(a.ProviderCommission)):
		return fmt.Errorf("%w: earning != service - commission", domainErrors.ErrInvalidAmount)
	}
	return nil
}
