package queue

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cleanfresh/laundry-backend/pkg/db/models"
	"github.com/cleanfresh/laundry-backend/pkg/enums"
	pkgerrors "github.com/cleanfresh/laundry-backend/pkg/errors"
	"github.com/cleanfresh/laundry-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service maintains the shop-floor processing line. Positions are assigned
// as max(position)+1 at enqueue time; the line offers no concurrency
// guarantees beyond the enqueue transaction.
type Service interface {
	Enqueue(ctx context.Context, orderID uuid.UUID) (*models.QueueEntry, error)
	NextInStage(ctx context.Context, stage enums.QueueStage) (*models.QueueEntry, error)
	Advance(ctx context.Context, orderID uuid.UUID, stage enums.QueueStage) (*models.QueueEntry, error)
	Assign(ctx context.Context, orderID uuid.UUID, staffID *uuid.UUID) (*models.QueueEntry, error)
	List(ctx context.Context, stage *enums.QueueStage) ([]models.QueueEntry, error)
	Remove(ctx context.Context, orderID uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds the queue service with the required dependencies.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("queue repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) Enqueue(ctx context.Context, orderID uuid.UUID) (*models.QueueEntry, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var entry *models.QueueEntry
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if existing, err := repo.FindByOrder(ctx, orderID); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "order already queued").
				WithDetails(map[string]any{"position": existing.Position})
		} else if err != gorm.ErrRecordNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check queue")
		}

		lastPosition, err := repo.MaxPosition(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read queue tail")
		}

		entry = &models.QueueEntry{
			ID:           uuid.New(),
			OrderID:      orderID,
			Position:     lastPosition + 1,
			CurrentStage: enums.QueueStageRegistered,
		}
		if err := repo.Create(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "enqueue order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) NextInStage(ctx context.Context, stage enums.QueueStage) (*models.QueueEntry, error) {
	if !stage.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid queue stage").
			WithDetails(map[string]string{"field": "stage"})
	}
	entry, err := s.repo.FirstInStage(ctx, stage)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "queue stage is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read queue")
	}
	return entry, nil
}

func (s *service) Advance(ctx context.Context, orderID uuid.UUID, stage enums.QueueStage) (*models.QueueEntry, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !stage.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid queue stage").
			WithDetails(map[string]string{"field": "stage"})
	}

	var updated *models.QueueEntry
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		entry, err := s.findEntry(ctx, repo, orderID)
		if err != nil {
			return err
		}
		entry.CurrentStage = stage
		if err := repo.Save(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save queue entry")
		}
		updated = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Assign(ctx context.Context, orderID uuid.UUID, staffID *uuid.UUID) (*models.QueueEntry, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var updated *models.QueueEntry
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		entry, err := s.findEntry(ctx, repo, orderID)
		if err != nil {
			return err
		}
		entry.AssignedTo = staffID
		if err := repo.Save(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save queue entry")
		}
		updated = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) List(ctx context.Context, stage *enums.QueueStage) ([]models.QueueEntry, error) {
	if stage != nil && !stage.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid queue stage").
			WithDetails(map[string]string{"field": "stage"})
	}
	rows, err := s.repo.List(ctx, stage)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list queue")
	}
	return rows, nil
}

func (s *service) Remove(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if err := s.repo.Delete(ctx, orderID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not queued")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove queue entry")
	}
	return nil
}

func (s *service) findEntry(ctx context.Context, repo Repository, orderID uuid.UUID) (*models.QueueEntry, error) {
	entry, err := repo.FindByOrder(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not queued")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load queue entry")
	}
	return entry, nil
}
