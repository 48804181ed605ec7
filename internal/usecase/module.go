package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/guidee/internal/config"
	"github.com/polkiloo/guidee/internal/domain/lifecycle"
	"github.com/polkiloo/guidee/internal/domain/ordernumber"
	"github.com/polkiloo/guidee/internal/domain/pricing"
	"github.com/polkiloo/guidee/internal/domain/refund"
	"github.com/polkiloo/guidee/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newCalculator,
	newNumberGenerator,
	newOrderFactory,
	newRefundEngine,
	newBookingUseCase,
)

func newCalculator(cfg *config.Config) (*pricing.Calculator, error) {
	return pricing.NewCalculator(cfg.Rates)
}

func newNumberGenerator(cfg *config.Config) (*ordernumber.Generator, error) {
	return ordernumber.New(cfg.OrderNumberPrefix, cfg.ServiceLocation)
}

func newOrderFactory(calc *pricing.Calculator, numbers *ordernumber.Generator) *lifecycle.Factory {
	return lifecycle.NewFactory(calc, numbers, nil)
}

func newRefundEngine(cfg *config.Config) *refund.Engine {
	return refund.NewEngine(refund.DefaultPolicies(cfg.RefundTiers), cfg.Rates.Precision, cfg.ServiceLocation)
}

type bookingParams struct {
	fx.In

	Config   *config.Config
	Logger   *slog.Logger
	Orders   repository.OrderRepository
	Events   repository.EventRepository
	Listings ListingProvider
	Factory  *lifecycle.Factory
	Refunds  *refund.Engine
	Delivery DeliveryStore      `optional:"true"`
	Recorder TransitionRecorder `optional:"true"`
}

func newBookingUseCase(p bookingParams) *BookingUseCase {
	return NewBookingUseCase(Deps{
		Orders:   p.Orders,
		Events:   p.Events,
		Listings: p.Listings,
		Factory:  p.Factory,
		Refunds:  p.Refunds,
		Delivery: p.Delivery,
		Recorder: p.Recorder,
		Logger:   p.Logger,
		Settings: Settings{
			DefaultCurrency: p.Config.DefaultCurrency,
			StrictStart:     p.Config.StrictStart,
			Location:        p.Config.ServiceLocation,
		},
	})
}
