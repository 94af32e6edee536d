package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/kupfer451/poke-api/internal/server/http/handlers"
	"github.com/kupfer451/poke-api/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StoreFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.Authenticate(facade))
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	healthHandler := handlers.NewHealthHandler(facade)
	authHandler := handlers.NewAuthHandler(facade)
	productHandler := handlers.NewProductHandler(facade)
	userHandler := handlers.NewUserHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)

	engine.GET("/health", healthHandler.Check)

	api := engine.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/validate-token", authHandler.ValidateToken)
	auth.GET("/verify/:email", authHandler.Verify)
	auth.GET("/check-email/:email", authHandler.CheckEmail)
	auth.GET("/check-rut/:rut", authHandler.CheckRut)

	products := api.Group("/products")
	products.GET("", productHandler.List)
	products.GET("/search", productHandler.Search)
	products.GET("/:id", productHandler.Get)
	productsAdmin := products.Group("", middleware.RequireAdmin())
	productsAdmin.POST("", productHandler.Create)
	productsAdmin.PATCH("/:id", productHandler.Update)
	productsAdmin.DELETE("/:id", productHandler.Delete)

	users := api.Group("/users", middleware.RequireAdmin())
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/email/:email", userHandler.GetByEmail)
	users.GET("/:id", userHandler.Get)
	users.PATCH("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	orders := api.Group("/orders", middleware.RequireAuth())
	orders.POST("", orderHandler.Create)
	orders.GET("/my", orderHandler.Mine)
	orders.GET("/:id", orderHandler.Get)
	orders.POST("/:id/cancel", orderHandler.Cancel)
	ordersAdmin := orders.Group("", middleware.RequireAdmin())
	ordersAdmin.GET("", orderHandler.List)
	ordersAdmin.GET("/user/:userId", orderHandler.ByUser)
	ordersAdmin.PATCH("/:id/status", orderHandler.UpdateStatus)
	ordersAdmin.DELETE("/:id", orderHandler.Delete)

	return engine
}
