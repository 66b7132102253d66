package repository

import (
	"context"
	"encoding/json"
	"time"
)

// DashboardStats aggregates the numbers shown on the shop dashboard.
// Currency figures are cents.
type DashboardStats struct {
	ReceiptsToday      int64
	TakingsToday       int64
	ReceiptsTotal      int64
	CustomersTotal     int64
	LowStockItems      int64
	OutstandingLoans   int64
	OutstandingBalance int64
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s DashboardStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"receipts_today":      s.ReceiptsToday,
		"takings_today":       float64(s.TakingsToday) / 100,
		"receipts_total":      s.ReceiptsTotal,
		"customers_total":     s.CustomersTotal,
		"low_stock_items":     s.LowStockItems,
		"outstanding_loans":   s.OutstandingLoans,
		"outstanding_balance": float64(s.OutstandingBalance) / 100,
	})
}

// AnalyticsRepository defines aggregate queries for the dashboard
type AnalyticsRepository interface {
	GetDashboardStats(ctx context.Context, dayStart time.Time) (*DashboardStats, error)
}
