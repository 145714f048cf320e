package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cleanfresh/laundry-backend/pkg/db/models"
	pkgerrors "github.com/cleanfresh/laundry-backend/pkg/errors"
	"github.com/cleanfresh/laundry-backend/pkg/logger"
)

const recentOrdersLimit = 10

// StaffLeader is one row on the staff leaderboard.
type StaffLeader struct {
	StaffID    uuid.UUID `json:"staff_id"`
	OrderCount int64     `json:"order_count"`
}

// AdminStats is the shop-wide dashboard payload.
type AdminStats struct {
	TotalOrders   int64                 `json:"total_orders"`
	PendingOrders int64                 `json:"pending_orders"`
	TodayOrders   int64                 `json:"today_orders"`
	TotalRevenue  decimal.Decimal       `json:"total_revenue"`
	RecentOrders  []models.LaundryOrder `json:"recent_orders"`
	TopStaff      []StaffLeader         `json:"top_staff"`
}

// StaffStats scopes the dashboard to one staff member's own orders.
type StaffStats struct {
	MyOrders     int64                 `json:"my_orders"`
	MyPending    int64                 `json:"my_pending"`
	RecentOrders []models.LaundryOrder `json:"recent_orders"`
}

// Service assembles dashboard read models.
type Service interface {
	Admin(ctx context.Context) (*AdminStats, error)
	Staff(ctx context.Context, staffID uuid.UUID) (*StaffStats, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds the dashboard service with the required dependencies.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg, now: time.Now}, nil
}

func (s *service) Admin(ctx context.Context) (*AdminStats, error) {
	total, pending, err := s.repo.OrderCounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}

	dayStart := s.dayStart()
	today, err := s.repo.CountOrdersSince(ctx, dayStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count today orders")
	}

	revenue, err := s.repo.TotalRevenue(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum revenue")
	}

	recent, err := s.repo.RecentOrders(ctx, recentOrdersLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recent orders")
	}

	topStaff, err := s.repo.TopStaff(ctx, 5)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "top staff")
	}

	return &AdminStats{
		TotalOrders:   total,
		PendingOrders: pending,
		TodayOrders:   today,
		TotalRevenue:  revenue,
		RecentOrders:  recent,
		TopStaff:      topStaff,
	}, nil
}

func (s *service) Staff(ctx context.Context, staffID uuid.UUID) (*StaffStats, error) {
	if staffID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staff id required")
	}

	total, pending, err := s.repo.StaffOrderCounts(ctx, staffID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count staff orders")
	}

	recent, err := s.repo.RecentStaffOrders(ctx, staffID, recentOrdersLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recent staff orders")
	}

	return &StaffStats{
		MyOrders:     total,
		MyPending:    pending,
		RecentOrders: recent,
	}, nil
}

func (s *service) dayStart() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
