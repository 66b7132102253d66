package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lubetrack/lubetrack-api/internal/application/service"
	"github.com/lubetrack/lubetrack-api/internal/config"
	"github.com/lubetrack/lubetrack-api/internal/infrastructure/database"
	"github.com/lubetrack/lubetrack-api/internal/infrastructure/repository"
	domainRepo "github.com/lubetrack/lubetrack-api/internal/domain/repository"
	"github.com/lubetrack/lubetrack-api/internal/presentation/http/handler"
	"github.com/lubetrack/lubetrack-api/internal/presentation/http/routes"
	"github.com/lubetrack/lubetrack-api/pkg/printer"
	"github.com/lubetrack/lubetrack-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed the shop operator account
	if err := database.SeedOperator(db, &cfg.Admin); err != nil {
		logrus.Fatalf("Failed to seed operator account: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	stockRepo := repository.NewStockRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		logrus.WithError(err).Warn("Failed to initialize printer, falling back to null printer")
		thermalPrinter = printer.NewNullPrinter()
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	stockService := service.NewStockService(stockRepo)
	customerService := service.NewCustomerService(customerRepo)
	receiptService := service.NewReceiptService(receiptRepo, stockRepo, customerRepo, cfg.Inventory.AllowPartialDraw)
	loanService := service.NewLoanService(loanRepo, customerRepo)
	dashboardService := service.NewDashboardService(analyticsRepo)
	reportService := service.NewReportService(receiptRepo, loanRepo)
	printerService := service.NewPrinterService(thermalPrinter, receiptRepo, userRepo, cfg.Printer.Type)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Stock:     handler.NewStockHandler(stockService),
		Customer:  handler.NewCustomerHandler(customerService),
		Receipt:   handler.NewReceiptHandler(receiptService, printerService),
		Loan:      handler.NewLoanHandler(loanService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Report:    handler.NewReportHandler(reportService),
		Printer:   handler.NewPrinterHandler(printerService),
	}

	// Background sweepers: expired customer cards and stale idempotency keys.
	go runSweeper(customerService, idempotencyRepo)

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	logrus.Infof("Starting %s server on port %s (env: %s)", cfg.App.Name, port, cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}

// runSweeper purges expired customer cards and idempotency keys once at
// startup and then hourly.
func runSweeper(customerService *service.CustomerService, idempotencyRepo domainRepo.IdempotencyRepository) {
	sweep := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := customerService.PurgeExpired(ctx); err != nil {
			logrus.WithError(err).Error("Failed to purge expired customer cards")
		}
		if err := idempotencyRepo.DeleteExpired(ctx); err != nil {
			logrus.WithError(err).Error("Failed to purge expired idempotency keys")
		}
	}

	sweep()

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		sweep()
	}
}
