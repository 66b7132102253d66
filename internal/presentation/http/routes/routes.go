package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lubetrack/lubetrack-api/internal/config"
	domainRepo "github.com/lubetrack/lubetrack-api/internal/domain/repository"
	"github.com/lubetrack/lubetrack-api/internal/presentation/http/handler"
	"github.com/lubetrack/lubetrack-api/internal/presentation/http/middleware"
	"github.com/lubetrack/lubetrack-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Stock     *handler.StockHandler
	Customer  *handler.CustomerHandler
	Receipt   *handler.ReceiptHandler
	Loan      *handler.LoanHandler
	Dashboard *handler.DashboardHandler
	Report    *handler.ReportHandler
	Printer   *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotency := middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}

	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.Profile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Dashboard
	protected.GET("/dashboard", h.Dashboard.Stats)

	// Stock
	stock := protected.Group("/stock")
	{
		stock.GET("", h.Stock.List)
		stock.POST("", h.Stock.Create)
		stock.GET("/low", h.Stock.LowStock)
		stock.GET("/:id", h.Stock.Get)
		stock.PUT("/:id", h.Stock.Update)
		stock.DELETE("/:id", h.Stock.Delete)
	}

	// Customers
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}

	// Receipts. Posting draws down stock, so creation requires an
	// idempotency key.
	receipts := protected.Group("/receipts")
	{
		receipts.GET("", h.Receipt.List)
		receipts.POST("", middleware.IdempotencyRequired(idempotency), h.Receipt.Create)
		receipts.GET("/:id", h.Receipt.Get)
		receipts.DELETE("/:id", h.Receipt.Delete)
		receipts.POST("/:id/print", h.Receipt.Print)
	}

	// Loans. Payments move balances, so they also require an idempotency key.
	loans := protected.Group("/loans")
	{
		loans.GET("", h.Loan.List)
		loans.POST("", h.Loan.Create)
		loans.GET("/outstanding", h.Loan.Outstanding)
		loans.GET("/:id", h.Loan.Get)
		loans.POST("/:id/payments", middleware.IdempotencyRequired(idempotency), h.Loan.AddPayment)
		loans.PATCH("/:id/total", h.Loan.CorrectTotal)
		loans.DELETE("/:id", h.Loan.Delete)
	}

	// Reports
	reports := protected.Group("/reports")
	{
		reports.GET("/receipts.xlsx", h.Report.ExportReceipts)
		reports.GET("/loans.xlsx", h.Report.ExportLoans)
	}

	// Printer
	printerGroup := protected.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.Status)
		printerGroup.POST("/test", h.Printer.Test)
	}
}
