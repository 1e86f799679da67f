package main

import (
	"tailor-service/internal/handler"
	"tailor-service/internal/middleware"
	"tailor-service/pkg/config"
	"tailor-service/pkg/database"
	"tailor-service/pkg/jwtutil"
	"tailor-service/pkg/logger"
	"tailor-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting tailor service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if err := database.Initialize(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/login", handler.Login)
	auth.POST("/register", handler.Register)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	// Tenant onboarding - no tenant context yet
	api.POST("/tenants", handler.CreateTenant)

	// Tenant-scoped routes
	scoped := api.Group("")
	scoped.Use(middleware.RequireTenantContext)

	tenant := scoped.Group("/tenant")
	tenant.GET("", handler.GetTenant)
	tenant.PATCH("/settings", handler.UpdateTenantSettings)
	tenant.GET("/subscription", handler.GetSubscription)
	tenant.POST("/subscription/renew", handler.RenewSubscription)
	tenant.POST("/subscription/cancel", handler.CancelSubscription)

	lookups := scoped.Group("/lookups")
	lookups.POST("/item-types", handler.CreateItemType)
	lookups.GET("/item-types", handler.ListItemTypes)
	lookups.GET("/stages", handler.ListWorkflowStages)
	lookups.GET("/order-statuses", handler.ListOrderStatuses)
	lookups.GET("/order-priorities", handler.ListOrderPriorities)

	customers := scoped.Group("/customers")
	customers.POST("", handler.CreateCustomer)
	customers.GET("", handler.ListCustomers)
	customers.GET("/:id", handler.GetCustomer)
	customers.PATCH("/:id", handler.UpdateCustomer)

	workers := scoped.Group("/workers")
	workers.POST("", handler.CreateWorker)
	workers.GET("", handler.ListWorkers)
	workers.GET("/:id", handler.GetWorker)
	workers.PATCH("/:id", handler.UpdateWorker)

	inquiries := scoped.Group("/inquiries")
	inquiries.POST("", handler.CreateInquiry)
	inquiries.GET("", handler.ListInquiries)
	inquiries.GET("/:id", handler.GetInquiry)
	inquiries.PATCH("/:id/status", handler.UpdateInquiryStatus)
	inquiries.POST("/:id/convert", handler.ConvertInquiry)

	orders := scoped.Group("/orders")
	orders.POST("", handler.CreateOrder)
	orders.GET("", handler.ListOrders)
	orders.GET("/:id", handler.GetOrder)
	orders.PATCH("/:id/status", handler.UpdateOrderStatus)
	orders.POST("/:id/items", handler.AddOrderItem)
	orders.PATCH("/:id/items/:item_id", handler.UpdateOrderItem)
	orders.DELETE("/:id/items/:item_id", handler.RemoveOrderItem)
	orders.GET("/:id/payments", handler.OrderPaymentSummary)

	items := scoped.Group("/items")
	items.POST("/:item_id/advance", handler.AdvanceItemStage)
	items.POST("/:item_id/reopen", handler.ReopenItemStage)
	items.GET("/:item_id/events", handler.ListItemStageEvents)

	invoices := scoped.Group("/invoices")
	invoices.POST("", handler.GenerateInvoice)
	invoices.POST("/manual", handler.GenerateManualInvoice)
	invoices.GET("", handler.ListInvoices)
	invoices.GET("/:id", handler.GetInvoice)
	invoices.POST("/:id/sent", handler.MarkInvoiceSent)
	invoices.POST("/:id/paid", handler.MarkInvoicePaid)
	invoices.POST("/:id/cancel", handler.CancelInvoice)

	payments := scoped.Group("/payments")
	payments.POST("", handler.RecordPayment)
	payments.POST("/:id/void", handler.VoidPayment)

	// Get server port from configuration
	port := cfg.Server.Port

	// Start server
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
