package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/bricklane/storefront/internal/config"
	"github.com/bricklane/storefront/internal/server/http/handlers"
)

// Module registers HTTP router construction for the fx runtime.
var Module = fx.Provide(newRouter)

type routerParams struct {
	fx.In

	Facade handlers.StorefrontFacade
	Config *config.Config
	Logger *slog.Logger
}

func newRouter(p routerParams) *gin.Engine {
	return Setup(p.Facade, p.Config.TopProductsN, p.Logger)
}
