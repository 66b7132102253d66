package repository

import (
	"context"
	"time"

	domainRepo "github.com/lubetrack/lubetrack-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetDashboardStats(ctx context.Context, dayStart time.Time) (*domainRepo.DashboardStats, error) {
	var stats domainRepo.DashboardStats

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(COUNT(*), 0) as receipts_today,
			COALESCE(SUM(total_amount), 0) as takings_today
		FROM receipts
		WHERE deleted_at IS NULL AND created_at >= ?
	`, dayStart).Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM receipts WHERE deleted_at IS NULL
	`).Scan(&stats.ReceiptsTotal).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM customers WHERE deleted_at IS NULL
	`).Scan(&stats.CustomersTotal).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM stock_items
		WHERE deleted_at IS NULL AND quantity <= quantity_alert
	`).Scan(&stats.LowStockItems).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(COUNT(*), 0) as outstanding_loans,
			COALESCE(SUM(remaining_amount), 0) as outstanding_balance
		FROM loans
		WHERE deleted_at IS NULL AND remaining_amount > 0
	`).Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
