package auth

import (
	"github.com/polkiloo/guidee/internal/config"
	"go.uber.org/fx"
)

// Module provides authentication primitives via fx.
var Module = fx.Options(
	fx.Provide(newTokenStrategy),
	fx.Provide(newSignatureVerifier),
)

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newTokenStrategy(p strategyParams) Strategy {
	return NewHMACStrategy(p.Config.AuthSecret, Options{})
}

func newSignatureVerifier(p strategyParams) *SignatureVerifier {
	return NewSignatureVerifier(p.Config.WebhookSecret)
}
