package customers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cleanfresh/laundry-backend/internal/idgen"
	"github.com/cleanfresh/laundry-backend/pkg/db"
	"github.com/cleanfresh/laundry-backend/pkg/db/models"
	pkgerrors "github.com/cleanfresh/laundry-backend/pkg/errors"
	"github.com/cleanfresh/laundry-backend/pkg/logger"
	"github.com/cleanfresh/laundry-backend/pkg/metrics"
	"github.com/cleanfresh/laundry-backend/pkg/pagination"
)

const customerIDConstraint = "idx_customers_customer_id"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages customers: registration with collision-free id assignment,
// contact updates and the lifetime-spend aggregate.
type Service interface {
	Create(ctx context.Context, input CreateCustomerInput) (*models.Customer, error)
	Get(ctx context.Context, id uuid.UUID) (*CustomerWithRating, error)
	List(ctx context.Context, params pagination.Params, search string) (*CustomerList, error)
	Update(ctx context.Context, input UpdateCustomerInput) (*models.Customer, error)
	Exists(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) (bool, error)
	RecomputeTotalSpent(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) error
}

// CreateCustomerInput carries the registration fields. The customer_id is
// never supplied by callers; it is derived from the phone number.
type CreateCustomerInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// UpdateCustomerInput applies partial contact changes. The business id and
// the spend aggregate are not caller-writable.
type UpdateCustomerInput struct {
	ID      uuid.UUID
	Name    *string
	Phone   *string
	Email   *string
	Address *string
}

// CustomerWithRating pairs a customer with the read-time star rating.
type CustomerWithRating struct {
	models.Customer
	Rating int `json:"rating"`
}

// CustomerList is one page of customers plus the cursor for the next page.
type CustomerList struct {
	Customers  []CustomerWithRating `json:"customers"`
	NextCursor string               `json:"next_cursor,omitempty"`
}

type service struct {
	repo    Repository
	tx      txRunner
	logg    *logger.Logger
	metrics *metrics.OrderMetrics
}

// NewService builds the customer service with the required dependencies.
func NewService(repo Repository, tx txRunner, logg *logger.Logger, m *metrics.OrderMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, logg: logg, metrics: m}, nil
}

func (s *service) Create(ctx context.Context, input CreateCustomerInput) (*models.Customer, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required").
			WithDetails(map[string]string{"field": "name"})
	}
	if input.Phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone required").
			WithDetails(map[string]string{"field": "phone"})
	}

	for attempt := 0; attempt < idgen.MaxCustomerIDAttempts; attempt++ {
		customer := &models.Customer{
			ID:         uuid.New(),
			CustomerID: idgen.CustomerIDCandidate(input.Phone),
			Name:       input.Name,
			Phone:      input.Phone,
			Email:      input.Email,
			Address:    input.Address,
		}

		err := s.repo.Create(ctx, customer)
		if err == nil {
			return customer, nil
		}
		if db.IsUniqueViolation(err, customerIDConstraint) {
			s.metrics.IncIDRetry()
			continue
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}

	s.metrics.IncIDExhausted()
	warnCtx := s.logg.WithField(ctx, "phone_tail", tailOf(input.Phone))
	s.logg.Warn(warnCtx, "customer id space exhausted for phone tail")
	return nil, pkgerrors.New(pkgerrors.CodeIdentifierExhausted, "customer id retries exceeded")
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CustomerWithRating, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	maxTotal, err := s.repo.MaxTotalSpent(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load max total spent")
	}
	return &CustomerWithRating{
		Customer: *customer,
		Rating:   StarRating(customer.TotalSpent, maxTotal),
	}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, search string) (*CustomerList, error) {
	rows, next, err := s.repo.List(ctx, params, search)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}

	maxTotal, err := s.repo.MaxTotalSpent(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load max total spent")
	}

	list := &CustomerList{Customers: make([]CustomerWithRating, 0, len(rows))}
	for _, row := range rows {
		list.Customers = append(list.Customers, CustomerWithRating{
			Customer: row,
			Rating:   StarRating(row.TotalSpent, maxTotal),
		})
	}
	if next != nil {
		list.NextCursor = pagination.EncodeCursor(*next)
	}
	return list, nil
}

func (s *service) Update(ctx context.Context, input UpdateCustomerInput) (*models.Customer, error) {
	if input.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if input.Name != nil && *input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty").
			WithDetails(map[string]string{"field": "name"})
	}
	if input.Phone != nil && *input.Phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone cannot be empty").
			WithDetails(map[string]string{"field": "phone"})
	}

	var updated *models.Customer
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		customer, err := repo.FindByID(ctx, input.ID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
		}

		if input.Name != nil {
			customer.Name = *input.Name
		}
		if input.Phone != nil {
			// The phone can change; the id derived from the old phone stays.
			customer.Phone = *input.Phone
		}
		if input.Email != nil {
			customer.Email = *input.Email
		}
		if input.Address != nil {
			customer.Address = *input.Address
		}

		if err := repo.Save(ctx, customer); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save customer")
		}
		updated = customer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Exists(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) (bool, error) {
	return s.repo.WithTx(tx).Exists(ctx, customerID)
}

// RecomputeTotalSpent re-derives the lifetime spend from the customer's
// orders and persists it. Always a full recompute, never an incremental
// patch, so drift cannot accumulate.
func (s *service) RecomputeTotalSpent(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) error {
	repo := s.repo.WithTx(tx)

	customer, err := repo.FindByID(ctx, customerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// The order outlived its customer; nothing to aggregate.
			return nil
		}
		return err
	}

	total, err := repo.SumOrderTotals(ctx, customerID)
	if err != nil {
		return err
	}

	customer.TotalSpent = total
	return repo.Save(ctx, customer)
}

func tailOf(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return phone[len(phone)-4:]
}
