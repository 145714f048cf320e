package customers

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cleanfresh/laundry-backend/pkg/db/models"
	pkgerrors "github.com/cleanfresh/laundry-backend/pkg/errors"
	"github.com/cleanfresh/laundry-backend/pkg/logger"
	"github.com/cleanfresh/laundry-backend/pkg/pagination"
)

func setupCustomersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	customers := `
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  phone TEXT NOT NULL,
  email TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  total_spent TEXT NOT NULL DEFAULT '0',
  created_at DATETIME,
  updated_at DATETIME
);`
	orders := `
CREATE TABLE IF NOT EXISTS laundry_orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  customer_id TEXT NOT NULL,
  staff_id TEXT,
  is_urgent INTEGER NOT NULL DEFAULT 0,
  subtotal TEXT NOT NULL DEFAULT '0',
  urgent_fee TEXT NOT NULL DEFAULT '0',
  discount TEXT NOT NULL DEFAULT '0',
  total_price TEXT NOT NULL DEFAULT '0',
  amount_paid TEXT NOT NULL DEFAULT '0',
  balance TEXT NOT NULL DEFAULT '0',
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  special_instructions TEXT NOT NULL DEFAULT '',
  expected_delivery_date DATETIME,
  picked_up_at DATETIME,
  delivered_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(customers).Error)
	require.NoError(t, db.Exec(orders).Error)
	return db
}

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), testTxRunner{db: db}, logger.New(logger.Options{ServiceName: "test"}), nil)
	require.NoError(t, err)
	return svc
}

func TestCreateAssignsPhoneDerivedID(t *testing.T) {
	db := setupCustomersTestDB(t)
	svc := newTestService(t, db)

	customer, err := svc.Create(context.Background(), CreateCustomerInput{
		Name:  "Amina Yusuf",
		Phone: "0712345678",
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^CUST-5678-[A-Z]{2}$`), customer.CustomerID)
	assert.NotEqual(t, uuid.Nil, customer.ID)
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	db := setupCustomersTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.Create(context.Background(), CreateCustomerInput{Phone: "0712345678"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Create(context.Background(), CreateCustomerInput{Name: "Amina"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateManyCustomersNoDuplicateIDs(t *testing.T) {
	db := setupCustomersTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		customer, err := svc.Create(ctx, CreateCustomerInput{
			Name:  fmt.Sprintf("Customer %d", i),
			Phone: fmt.Sprintf("07%08d", i),
		})
		require.NoError(t, err)
		require.False(t, seen[customer.CustomerID], "duplicate customer id %s", customer.CustomerID)
		seen[customer.CustomerID] = true
	}
	assert.Len(t, seen, 1000)
}

func TestCreateRetriesOnCollision(t *testing.T) {
	db := setupCustomersTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	// Same phone tail every time: collisions are expected well before the
	// 676-suffix space fills up, and each one must be retried through.
	for i := 0; i < 80; i++ {
		_, err := svc.Create(ctx, CreateCustomerInput{
			Name:  fmt.Sprintf("Tail Twin %d", i),
			Phone: "0700001234",
		})
		require.NoError(t, err)
	}
}

type exhaustedRepo struct {
	Repository
	attempts int
}

func (r *exhaustedRepo) Create(ctx context.Context, customer *models.Customer) error {
	r.attempts++
	return errors.New("UNIQUE constraint failed: customers.customer_id")
}

func TestCreateExhaustsRetries(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := &exhaustedRepo{Repository: NewRepository(db)}
	svc, err := NewService(repo, testTxRunner{db: db}, logger.New(logger.Options{ServiceName: "test"}), nil)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateCustomerInput{Name: "Unlucky", Phone: "0700009999"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeIdentifierExhausted, pkgerrors.As(err).Code())
	assert.Equal(t, 100, repo.attempts)
}

func TestRecomputeTotalSpentSumsAllOrders(t *testing.T) {
	db := setupCustomersTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	customer, err := svc.Create(ctx, CreateCustomerInput{Name: "Big Spender", Phone: "0711112222"})
	require.NoError(t, err)

	for i, total := range []string{"20.00", "31.00", "9.50"} {
		order := models.LaundryOrder{
			ID:          uuid.New(),
			OrderNumber: fmt.Sprintf("LAU-20260309-%04d", i+1),
			CustomerID:  customer.ID,
			TotalPrice:  decimal.RequireFromString(total),
		}
		require.NoError(t, db.Create(&order).Error)
	}

	require.NoError(t, svc.RecomputeTotalSpent(ctx, db, customer.ID))

	reloaded, err := svc.Get(ctx, customer.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.TotalSpent.Equal(decimal.RequireFromString("60.50")),
		"total spent %s", reloaded.TotalSpent)
	assert.Equal(t, 5, reloaded.Rating)
}

func TestRecomputeTotalSpentMissingCustomerIsNoop(t *testing.T) {
	db := setupCustomersTestDB(t)
	svc := newTestService(t, db)

	require.NoError(t, svc.RecomputeTotalSpent(context.Background(), db, uuid.New()))
}

func TestUpdateKeepsCustomerIDImmutable(t *testing.T) {
	db := setupCustomersTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	customer, err := svc.Create(ctx, CreateCustomerInput{Name: "Amina", Phone: "0712345678"})
	require.NoError(t, err)
	originalID := customer.CustomerID

	newPhone := "0799999999"
	updated, err := svc.Update(ctx, UpdateCustomerInput{ID: customer.ID, Phone: &newPhone})
	require.NoError(t, err)

	assert.Equal(t, originalID, updated.CustomerID)
	assert.Equal(t, newPhone, updated.Phone)
}

func TestListSearchesNamePhoneAndID(t *testing.T) {
	db := setupCustomersTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateCustomerInput{Name: "Amina Yusuf", Phone: "0712345678"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateCustomerInput{Name: "Brian Otieno", Phone: "0733334444"})
	require.NoError(t, err)

	list, err := svc.List(ctx, pagination.Params{}, "Amina")
	require.NoError(t, err)
	require.Len(t, list.Customers, 1)
	assert.Equal(t, "Amina Yusuf", list.Customers[0].Name)

	list, err = svc.List(ctx, pagination.Params{}, "3333")
	require.NoError(t, err)
	require.Len(t, list.Customers, 1)
	assert.Equal(t, "Brian Otieno", list.Customers[0].Name)
}
