package listing

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/guidee/internal/config"
)

// Module exposes listing client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.ListingServiceAddress, p.Logger)
}
