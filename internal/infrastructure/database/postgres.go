package database

import (
	"fmt"

	"github.com/lubetrack/lubetrack-api/internal/config"
	"github.com/lubetrack/lubetrack-api/internal/domain/entity"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	logrus.Info("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	err := db.AutoMigrate(
		&entity.User{},

		// Inventory
		&entity.StockItem{},

		// CRM
		&entity.Customer{},

		// Transactions
		&entity.Receipt{},
		&entity.ReceiptItem{},
		&entity.Loan{},
		&entity.LoanPayment{},

		// System
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logrus.Info("Database migrations completed")
	return nil
}

// SeedOperator creates the shop operator account if it does not exist.
// The shop runs with a single seeded login; there is no self-registration.
func SeedOperator(db *gorm.DB, cfg *config.AdminConfig) error {
	if cfg.Username == "" || cfg.Password == "" {
		logrus.Warn("No operator account configured (ADMIN_USERNAME/ADMIN_PASSWORD); login will be impossible")
		return nil
	}

	var existing entity.User
	if err := db.Where("username = ?", cfg.Username).First(&existing).Error; err == nil {
		logrus.WithField("username", cfg.Username).Info("Operator account already exists")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash operator password: %w", err)
	}

	displayName := cfg.DisplayName
	if displayName == "" {
		displayName = "Shop Operator"
	}

	user := entity.User{
		Username:    cfg.Username,
		DisplayName: displayName,
		Password:    string(hashed),
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create operator account: %w", err)
	}

	logrus.WithField("username", cfg.Username).Info("Operator account created")
	return nil
}
