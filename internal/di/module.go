package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/guidee/internal/adapter/idempotency"
	"github.com/polkiloo/guidee/internal/adapter/listing"
	"github.com/polkiloo/guidee/internal/app"
	"github.com/polkiloo/guidee/internal/config"
	"github.com/polkiloo/guidee/internal/logger"
	"github.com/polkiloo/guidee/internal/metrics"
	"github.com/polkiloo/guidee/internal/pkg/auth"
	"github.com/polkiloo/guidee/internal/server/http/handlers"
	"github.com/polkiloo/guidee/internal/server/http/router"
	"github.com/polkiloo/guidee/internal/storage/postgres"
	"github.com/polkiloo/guidee/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		metrics.Module,
		postgres.Module,
		listing.Module,
		idempotency.Module,
		usecase.Module,
		fx.Provide(
			func(client listing.Client) usecase.ListingProvider { return client },
			func(store idempotency.Store) usecase.DeliveryStore { return store },
			func(m *metrics.Metrics) usecase.TransitionRecorder { return m },
			func(s *postgres.Storage) handlers.HealthChecker { return s },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
