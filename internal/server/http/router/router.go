package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/bricklane/storefront/internal/server/http/handlers"
	"github.com/bricklane/storefront/internal/server/http/middleware"
)

// Setup configures the gin router with handlers and middleware.
func Setup(facade handlers.StorefrontFacade, topProducts int, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	productHandler := handlers.NewProductHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade, topProducts)
	ticketHandler := handlers.NewTicketHandler(facade)

	authRequired := middleware.AuthRequired(facade)
	adminRequired := middleware.AdminRequired()

	auth := engine.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	products := engine.Group("/products")
	products.GET("", productHandler.List)
	products.GET("/:productId", productHandler.Get)
	products.POST("", authRequired, adminRequired, productHandler.Create)
	products.PUT("/:productId", authRequired, adminRequired, productHandler.Update)

	orders := engine.Group("/orders")
	orders.Use(authRequired)
	orders.POST("/create", orderHandler.Create)
	orders.GET("/user-orders", orderHandler.ListOwn)

	ordersAdmin := orders.Group("/admin")
	ordersAdmin.Use(adminRequired)
	ordersAdmin.GET("/all-orders", orderHandler.ListAll)
	ordersAdmin.GET("/stats", orderHandler.Stats)
	ordersAdmin.PUT("/:orderId/status", orderHandler.UpdateStatus)

	orders.GET("/:orderId", orderHandler.Get)
	orders.PUT("/:orderId/cancel", orderHandler.Cancel)

	tickets := engine.Group("/tickets")
	tickets.Use(authRequired)
	tickets.POST("/create", ticketHandler.Create)
	tickets.GET("/user-tickets", ticketHandler.ListOwn)

	ticketsAdmin := tickets.Group("/admin")
	ticketsAdmin.Use(adminRequired)
	ticketsAdmin.GET("/all-tickets", ticketHandler.ListAll)
	ticketsAdmin.PUT("/:ticketId/status", ticketHandler.UpdateStatus)

	tickets.GET("/:ticketId", ticketHandler.Get)
	tickets.POST("/:ticketId/messages", ticketHandler.AddMessage)

	return engine
}
