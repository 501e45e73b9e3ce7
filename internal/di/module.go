package di

import (
	"go.uber.org/fx"

	"github.com/bricklane/storefront/internal/adapter/cache"
	"github.com/bricklane/storefront/internal/adapter/mailer"
	"github.com/bricklane/storefront/internal/adapter/payment"
	"github.com/bricklane/storefront/internal/app"
	"github.com/bricklane/storefront/internal/config"
	"github.com/bricklane/storefront/internal/logger"
	"github.com/bricklane/storefront/internal/pkg/auth"
	"github.com/bricklane/storefront/internal/server/http/handlers"
	"github.com/bricklane/storefront/internal/server/http/router"
	"github.com/bricklane/storefront/internal/storage/postgres"
	"github.com/bricklane/storefront/internal/usecase"
	"github.com/bricklane/storefront/internal/worker"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		payment.Module,
		mailer.Module,
		cache.Module,
		worker.Module,
		usecase.Module,
		fx.Provide(func(facade *app.StorefrontFacade) handlers.StorefrontFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
