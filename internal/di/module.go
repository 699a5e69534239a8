package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/alipay-checkout/internal/adapter/easypay"
	"github.com/polkiloo/alipay-checkout/internal/app"
	"github.com/polkiloo/alipay-checkout/internal/config"
	"github.com/polkiloo/alipay-checkout/internal/logger"
	"github.com/polkiloo/alipay-checkout/internal/server/http/handlers"
	"github.com/polkiloo/alipay-checkout/internal/server/http/router"
	"github.com/polkiloo/alipay-checkout/internal/storage/postgres"
	"github.com/polkiloo/alipay-checkout/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		easypay.Module,
		usecase.Module,
		fx.Provide(func(client easypay.Client) usecase.Gateway { return client }),
		fx.Provide(func(facade *app.CheckoutFacade) handlers.PaymentFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
