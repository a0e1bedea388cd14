package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/pos80/internal/domain/model"
	"github.com/polkiloo/pos80/internal/metrics"
	"github.com/polkiloo/pos80/internal/server/http/handlers"
	"github.com/polkiloo/pos80/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.POSFacade, health handlers.HealthChecker, m *metrics.Metrics, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.Instrument(m))
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	tillHandler := handlers.NewTillHandler(facade)
	catalogHandler := handlers.NewCatalogHandler(facade)
	printerHandler := handlers.NewPrinterHandler(facade)
	reportHandler := handlers.NewReportHandler(facade)
	healthHandler := handlers.NewHealthHandler(health)

	engine.GET("/healthz", healthHandler.Check)
	if m != nil {
		engine.GET("/metrics", gin.WrapH(m.Handler()))
	}

	api := engine.Group("/api")
	api.GET("/menu", catalogHandler.Menu)
	api.POST("/orders", orderHandler.Place)
	api.GET("/track/:code", orderHandler.Track)
	api.POST("/login", authHandler.Login)

	staff := api.Group("")
	staff.Use(middleware.AuthRequired(facade))
	staff.GET("/orders", orderHandler.List)
	staff.POST("/orders/:id/status", orderHandler.ChangeStatus)
	staff.GET("/kitchen/orders", middleware.RequireRole(model.RoleKitchen, model.RoleCashier), orderHandler.Kitchen)
	staff.GET("/delivery/orders", middleware.RequireRole(model.RoleDelivery, model.RoleCashier), orderHandler.Delivery)
	staff.GET("/orders/:id/receipt", middleware.RequireRole(model.RoleCashier, model.RoleKitchen), orderHandler.Receipt)
	staff.POST("/orders/:id/print", middleware.RequireRole(model.RoleCashier, model.RoleKitchen), orderHandler.Print)

	cashier := staff.Group("")
	cashier.Use(middleware.RequireRole(model.RoleCashier))
	cashier.POST("/orders/counter", orderHandler.PlaceCounter)
	cashier.PATCH("/orders/:id", orderHandler.Edit)
	cashier.GET("/till", tillHandler.Status)
	cashier.POST("/till/open", tillHandler.Open)
	cashier.POST("/till/close", tillHandler.Close)
	cashier.GET("/till/report", tillHandler.Report)
	cashier.GET("/reports/sales", reportHandler.Sales)
	cashier.GET("/reports/sales.csv", reportHandler.SalesCSV)
	cashier.GET("/dashboard", reportHandler.Dashboard)

	admin := staff.Group("")
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.DELETE("/orders/:id", orderHandler.Delete)
	admin.GET("/products", catalogHandler.Menu)
	admin.GET("/products/:id", catalogHandler.Get)
	admin.POST("/products", catalogHandler.Create)
	admin.PUT("/products/:id", catalogHandler.Update)
	admin.DELETE("/products/:id", catalogHandler.Delete)
	admin.GET("/printers", printerHandler.List)
	admin.POST("/printers", printerHandler.Create)
	admin.PUT("/printers/:id", printerHandler.Update)
	admin.DELETE("/printers/:id", printerHandler.Delete)
	admin.POST("/printers/:id/test", printerHandler.Test)
	admin.POST("/users", authHandler.CreateUser)
	admin.POST("/admin/reset", tillHandler.Reset)

	return engine
}
