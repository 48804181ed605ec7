package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/guidee/internal/server/http/handlers"
	"github.com/polkiloo/guidee/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
// A nil metrics handler leaves /metrics unregistered, a nil health checker leaves /health out.
func Setup(facade handlers.GuideeFacade, verifier middleware.BodyVerifier, metrics http.Handler, health handlers.HealthChecker, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithDecompressFn(gzip.DefaultDecompressHandle)))

	if metrics != nil {
		engine.GET("/metrics", gin.WrapH(metrics))
	}
	if health != nil {
		engine.GET("/health", handlers.NewHealthHandler(health).Check)
	}

	orderHandler := handlers.NewOrderHandler(facade)
	transitionHandler := handlers.NewTransitionHandler(facade)
	refundHandler := handlers.NewRefundHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade)

	api := engine.Group("/api")

	payments := api.Group("/payments")
	if verifier != nil {
		payments.Use(middleware.RequireSignature(verifier))
	}
	payments.POST("/webhook", paymentHandler.Webhook)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))

	orders := authed.Group("/orders")
	orders.POST("", orderHandler.Create)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.GET("/:id/events", orderHandler.Events)
	orders.GET("/:id/refund-preview", refundHandler.Preview)
	orders.POST("/:id/confirm", transitionHandler.Confirm)
	orders.POST("/:id/decline", transitionHandler.Decline)
	orders.POST("/:id/start", transitionHandler.Start)
	orders.POST("/:id/complete", transitionHandler.Complete)
	orders.POST("/:id/cancel", transitionHandler.Cancel)
	orders.POST("/:id/dispute", transitionHandler.Dispute)

	admin := authed.Group("/admin/orders")
	admin.POST("/:id/refund", refundHandler.Refund)
	admin.DELETE("/:id", refundHandler.Delete)

	return engine
}
