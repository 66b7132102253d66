package service

import (
	"context"
	"time"

	"github.com/lubetrack/lubetrack-api/internal/domain/repository"
)

// DashboardService aggregates the day's numbers for the landing screen
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(analyticsRepo repository.AnalyticsRepository) *DashboardService {
	return &DashboardService{analyticsRepo: analyticsRepo}
}

// GetStats returns the dashboard counters. "Today" is the local calendar
// day of the server.
func (s *DashboardService) GetStats(ctx context.Context) (*repository.DashboardStats, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.analyticsRepo.GetDashboardStats(ctx, dayStart)
}
