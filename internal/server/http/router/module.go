package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/guidee/internal/metrics"
	pkgAuth "github.com/polkiloo/guidee/internal/pkg/auth"
	"github.com/polkiloo/guidee/internal/server/http/handlers"
	"github.com/polkiloo/guidee/internal/server/http/middleware"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Provide(newRouter)

type routerParams struct {
	fx.In

	Facade   handlers.GuideeFacade
	Verifier *pkgAuth.SignatureVerifier
	Metrics  *metrics.Metrics       `optional:"true"`
	Health   handlers.HealthChecker `optional:"true"`
	Logger   *slog.Logger
}

func newRouter(p routerParams) *gin.Engine {
	var verifier middleware.BodyVerifier
	if p.Verifier != nil && p.Verifier.Enabled() {
		verifier = p.Verifier
	} else {
		p.Logger.Warn("webhook signature verification disabled", slog.String("route", "/api/payments/webhook"))
	}
	var scrape http.Handler
	if p.Metrics != nil {
		scrape = p.Metrics.Handler()
	}
	return Setup(p.Facade, verifier, scrape, p.Health, p.Logger)
}
