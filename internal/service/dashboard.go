package service

import (
	"context"
	"time"

	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/repository"
)

const (
	recentActivityLimit = 7
	upcomingReturnDays  = 7
)

type dashboardService struct {
	dashboardRepo repository.DashboardRepository
}

func NewDashboardService(dashboardRepo repository.DashboardRepository) DashboardService {
	return &dashboardService{dashboardRepo: dashboardRepo}
}

func (s *dashboardService) GetKPIs(ctx context.Context, now time.Time) (*domain.KPIs, error) {
	from, to := domain.MonthBounds(now)

	revenue, err := s.dashboardRepo.PaidRevenueBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	newClients, err := s.dashboardRepo.CountClientsCreatedBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	active, err := s.dashboardRepo.CountActiveOrders(ctx)
	if err != nil {
		return nil, err
	}
	units, err := s.dashboardRepo.SumCheckedOutUnits(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.KPIs{
		MonthlyRevenue:  revenue,
		NewClients:      newClients,
		ActiveOrders:    active,
		CheckedOutUnits: units,
	}, nil
}

func (s *dashboardService) GetRecentActivity(ctx context.Context) ([]domain.ActivityItem, error) {
	return s.dashboardRepo.RecentActivity(ctx, recentActivityLimit)
}

// GetUpcomingReturns lists orders with checked-out items due back within the
// next week, one entry per order at its earliest end date.
func (s *dashboardService) GetUpcomingReturns(ctx context.Context, today time.Time) ([]domain.UpcomingReturn, error) {
	from := domain.Day(today)
	rows, err := s.dashboardRepo.CheckedOutEndingBetween(ctx, from, from.AddDate(0, 0, upcomingReturnDays))
	if err != nil {
		return nil, err
	}

	out := make([]domain.UpcomingReturn, 0, len(rows))
	index := make(map[string]int, len(rows))
	for _, row := range rows {
		if i, ok := index[row.OrderID]; ok {
			out[i].ItemCount += row.ItemCount
			continue
		}
		index[row.OrderID] = len(out)
		out = append(out, row)
	}
	return out, nil
}
