package router

import (
	"fmt"
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/alipay-checkout/internal/checkout"
	"github.com/polkiloo/alipay-checkout/internal/config"
	"github.com/polkiloo/alipay-checkout/internal/server/http/handlers"
	"github.com/polkiloo/alipay-checkout/internal/server/http/middleware"
	"github.com/polkiloo/alipay-checkout/internal/server/http/web"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.PaymentFacade, cfg *config.Config, logger *slog.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	engine.SetHTMLTemplate(templates)

	paymentHandler := handlers.NewPaymentHandler(facade, cfg.PublicBaseURL)
	pagesHandler := handlers.NewPagesHandler(facade, cfg.RedirectDelay, cfg.StatusPollInterval)

	api := engine.Group("/api")
	payment := api.Group("/payment")
	payment.POST("/alipay", paymentHandler.Create)
	payment.GET("/status/:orderNo", paymentHandler.Status)
	payment.POST("/notify", paymentHandler.Notify)

	engine.GET(checkout.RouteHome, pagesHandler.Home)
	engine.GET(checkout.RouteCheckout, pagesHandler.Checkout)
	engine.GET(checkout.RouteProcessing, pagesHandler.Processing)
	engine.GET(checkout.RouteReturn, pagesHandler.Return)

	return engine, nil
}
