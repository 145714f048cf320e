package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cleanfresh/laundry-backend/internal/catalog"
	"github.com/cleanfresh/laundry-backend/internal/customers"
	"github.com/cleanfresh/laundry-backend/internal/dashboard"
	"github.com/cleanfresh/laundry-backend/internal/orders"
	"github.com/cleanfresh/laundry-backend/internal/payments"
	"github.com/cleanfresh/laundry-backend/internal/reports"
	"github.com/cleanfresh/laundry-backend/pkg/config"
	"github.com/cleanfresh/laundry-backend/pkg/db/models"
	"github.com/cleanfresh/laundry-backend/pkg/enums"
	"github.com/cleanfresh/laundry-backend/pkg/logger"
	"github.com/cleanfresh/laundry-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCustomersService struct{}

func (stubCustomersService) Create(ctx context.Context, input customers.CreateCustomerInput) (*models.Customer, error) {
	panic("unimplemented")
}

func (stubCustomersService) Get(ctx context.Context, id uuid.UUID) (*customers.CustomerWithRating, error) {
	panic("unimplemented")
}

func (stubCustomersService) List(ctx context.Context, params pagination.Params, search string) (*customers.CustomerList, error) {
	return &customers.CustomerList{}, nil
}

func (stubCustomersService) Update(ctx context.Context, input customers.UpdateCustomerInput) (*models.Customer, error) {
	panic("unimplemented")
}

func (stubCustomersService) Exists(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) (bool, error) {
	panic("unimplemented")
}

func (stubCustomersService) RecomputeTotalSpent(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) error {
	panic("unimplemented")
}

type stubOrdersService struct{}

func (stubOrdersService) CreateOrder(ctx context.Context, input orders.CreateOrderInput) (*models.LaundryOrder, error) {
	panic("unimplemented")
}

func (stubOrdersService) GetOrder(ctx context.Context, id uuid.UUID) (*models.LaundryOrder, error) {
	panic("unimplemented")
}

func (stubOrdersService) ListOrders(ctx context.Context, params pagination.Params, filters orders.ListFilters) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (stubOrdersService) UpdateOrder(ctx context.Context, input orders.UpdateOrderInput) (*models.LaundryOrder, error) {
	panic("unimplemented")
}

func (stubOrdersService) AddItem(ctx context.Context, input orders.AddItemInput) (*models.LaundryOrder, error) {
	panic("unimplemented")
}

func (stubOrdersService) UpdateItem(ctx context.Context, input orders.UpdateItemInput) (*models.LaundryOrder, error) {
	panic("unimplemented")
}

func (stubOrdersService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*models.LaundryOrder, error) {
	panic("unimplemented")
}

type stubCatalogService struct {
	created []catalog.CreateTypeInput
}

func (s *stubCatalogService) CreateType(ctx context.Context, input catalog.CreateTypeInput) (*models.ClothingType, error) {
	s.created = append(s.created, input)
	return &models.ClothingType{ID: uuid.New(), Name: input.Name, Price: input.Price, UrgentPrice: input.UrgentPrice}, nil
}

func (s *stubCatalogService) UpdateType(ctx context.Context, input catalog.UpdateTypeInput) (*models.ClothingType, error) {
	panic("unimplemented")
}

func (s *stubCatalogService) DeleteType(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (s *stubCatalogService) GetType(ctx context.Context, id uuid.UUID) (*models.ClothingType, error) {
	panic("unimplemented")
}

func (s *stubCatalogService) ListTypes(ctx context.Context, activeOnly bool) ([]models.ClothingType, error) {
	return []models.ClothingType{}, nil
}

func (s *stubCatalogService) FindType(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.ClothingType, error) {
	panic("unimplemented")
}

type stubPaymentsService struct{}

func (stubPaymentsService) RecordPayment(ctx context.Context, input payments.RecordPaymentInput) (*models.Payment, error) {
	panic("unimplemented")
}

func (stubPaymentsService) ListForOrder(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error) {
	return []models.Payment{}, nil
}

func (stubPaymentsService) SumForOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type stubQueueService struct{}

func (stubQueueService) Enqueue(ctx context.Context, orderID uuid.UUID) (*models.QueueEntry, error) {
	panic("unimplemented")
}

func (stubQueueService) NextInStage(ctx context.Context, stage enums.QueueStage) (*models.QueueEntry, error) {
	panic("unimplemented")
}

func (stubQueueService) Advance(ctx context.Context, orderID uuid.UUID, stage enums.QueueStage) (*models.QueueEntry, error) {
	panic("unimplemented")
}

func (stubQueueService) Assign(ctx context.Context, orderID uuid.UUID, staffID *uuid.UUID) (*models.QueueEntry, error) {
	panic("unimplemented")
}

func (stubQueueService) List(ctx context.Context, stage *enums.QueueStage) ([]models.QueueEntry, error) {
	return []models.QueueEntry{}, nil
}

func (stubQueueService) Remove(ctx context.Context, orderID uuid.UUID) error {
	panic("unimplemented")
}

type stubDashboardService struct{}

func (stubDashboardService) Admin(ctx context.Context) (*dashboard.AdminStats, error) {
	return &dashboard.AdminStats{}, nil
}

func (stubDashboardService) Staff(ctx context.Context, staffID uuid.UUID) (*dashboard.StaffStats, error) {
	return &dashboard.StaffStats{}, nil
}

type stubReportsService struct{}

func (stubReportsService) Receipt(ctx context.Context, orderID uuid.UUID) (*reports.Receipt, error) {
	panic("unimplemented")
}

func (stubReportsService) Sales(ctx context.Context, from, to time.Time) (*reports.SalesReport, error) {
	return &reports.SalesReport{From: from, To: to}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		nil, // *redis.Client, idempotency disabled
		stubCustomersService{},
		stubOrdersService{},
		&stubCatalogService{},
		stubPaymentsService{},
		stubQueueService{},
		stubDashboardService{},
		stubReportsService{},
	)
}

func staffRequest(method, target string, body string, role enums.ActorRole) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Staff-Id", uuid.NewString())
	req.Header.Set("X-Staff-Role", string(role))
	return req
}

func TestHealthLiveIsOpen(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
	if resp.Header().Get("X-Laundry-Env") != "test" {
		t.Fatalf("expected env header on health response")
	}
}

func TestProtectedGroupRejectsMissingStaffIdentity(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without staff headers got %d", resp.Code)
	}
}

func TestProtectedGroupRejectsUnknownRole(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	req.Header.Set("X-Staff-Id", uuid.NewString())
	req.Header.Set("X-Staff-Role", "visitor")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown role got %d", resp.Code)
	}
}

func TestProtectedGroupAcceptsGatewayIdentity(t *testing.T) {
	router := newTestRouter(testConfig())
	req := staffRequest(http.MethodGet, "/api/v1/customers", "", enums.ActorRoleStaff)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for staff list got %d", resp.Code)
	}
}

func TestCatalogWritesRequireAdminRole(t *testing.T) {
	router := newTestRouter(testConfig())
	body := `{"name":"Shirt","price":"5.00","urgent_price":"8.00"}`

	staff := staffRequest(http.MethodPost, "/api/v1/catalog", body, enums.ActorRoleStaff)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff catalog write got %d", resp.Code)
	}

	admin := staffRequest(http.MethodPost, "/api/v1/catalog", body, enums.ActorRoleAdmin)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin catalog write got %d", resp.Code)
	}
}

func TestCatalogReadsOpenToStaff(t *testing.T) {
	router := newTestRouter(testConfig())
	req := staffRequest(http.MethodGet, "/api/v1/catalog", "", enums.ActorRoleStaff)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for staff catalog read got %d", resp.Code)
	}
}

func TestSalesReportRequiresAdminRole(t *testing.T) {
	router := newTestRouter(testConfig())
	target := "/api/v1/reports/sales?from=2026-01-01&to=2026-02-01"

	staff := staffRequest(http.MethodGet, target, "", enums.ActorRoleStaff)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff sales report got %d", resp.Code)
	}

	admin := staffRequest(http.MethodGet, target, "", enums.ActorRoleAdmin)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin sales report got %d", resp.Code)
	}
}

func TestDashboardAdminRequiresAdminRole(t *testing.T) {
	router := newTestRouter(testConfig())

	staff := staffRequest(http.MethodGet, "/api/v1/dashboard/admin", "", enums.ActorRoleStaff)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff admin dashboard got %d", resp.Code)
	}

	admin := staffRequest(http.MethodGet, "/api/v1/dashboard/admin", "", enums.ActorRoleAdmin)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin dashboard got %d", resp.Code)
	}
}

func TestDashboardMeOpenToAnyStaff(t *testing.T) {
	router := newTestRouter(testConfig())
	req := staffRequest(http.MethodGet, "/api/v1/dashboard/me", "", enums.ActorRoleStaff)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for staff dashboard got %d", resp.Code)
	}
}
