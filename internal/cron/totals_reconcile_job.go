package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/cleanfresh/laundry-backend/pkg/logger"
)

// TotalsReconcileJobParams configures the nightly spend reconciliation.
type TotalsReconcileJobParams struct {
	Logger    *logger.Logger
	DB        txRunner
	Customers customerRecomputer
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type customerRecomputer interface {
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	RecomputeTotalSpent(ctx context.Context, tx *gorm.DB, customerID uuid.UUID) error
}

// NewTotalsReconcileJob constructs the job that re-derives every customer's
// lifetime spend from their orders. Per-order recompute already keeps the
// cache fresh; this pass repairs drift from out-of-band writes.
func NewTotalsReconcileJob(params TotalsReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Customers == nil {
		return nil, fmt.Errorf("customers service required")
	}
	return &totalsReconcileJob{
		logg:      params.Logger,
		db:        params.DB,
		customers: params.Customers,
	}, nil
}

type totalsReconcileJob struct {
	logg      *logger.Logger
	db        txRunner
	customers customerRecomputer
}

func (j *totalsReconcileJob) Name() string { return "customer-totals-reconcile" }

func (j *totalsReconcileJob) Run(ctx context.Context) error {
	ids, err := j.customers.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("list customers: %w", err)
	}

	var errs error
	reconciled := 0
	for _, id := range ids {
		err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
			return j.customers.RecomputeTotalSpent(ctx, tx, id)
		})
		if err != nil {
			// One bad customer must not stop the sweep.
			errs = multierr.Append(errs, fmt.Errorf("customer %s: %w", id, err))
			continue
		}
		reconciled++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"customers":  len(ids),
		"reconciled": reconciled,
	})
	j.logg.Info(logCtx, "customer totals reconcile complete")
	return errs
}
