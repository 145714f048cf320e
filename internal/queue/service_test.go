package queue

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cleanfresh/laundry-backend/pkg/enums"
	pkgerrors "github.com/cleanfresh/laundry-backend/pkg/errors"
	"github.com/cleanfresh/laundry-backend/pkg/logger"
)

func setupQueueTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`
CREATE TABLE IF NOT EXISTS queue_entries (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL UNIQUE,
  position INTEGER NOT NULL,
  current_stage TEXT NOT NULL DEFAULT 'registered',
  assigned_to TEXT,
  created_at DATETIME
);`).Error)
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
	svc, err := NewService(NewRepository(db), testTxRunner{db: db}, logger.New(logger.Options{ServiceName: "test"}))
	require.NoError(t, err)
	return svc
}

func TestEnqueueAssignsIncrementingPositions(t *testing.T) {
	db := setupQueueTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	first, err := svc.Enqueue(ctx, uuid.New())
	require.NoError(t, err)
	second, err := svc.Enqueue(ctx, uuid.New())
	require.NoError(t, err)
	third, err := svc.Enqueue(ctx, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 1, first.Position)
	assert.Equal(t, 2, second.Position)
	assert.Equal(t, 3, third.Position)
	assert.Equal(t, enums.QueueStageRegistered, first.CurrentStage)
}

func TestEnqueueRejectsDuplicates(t *testing.T) {
	db := setupQueueTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	orderID := uuid.New()

	_, err := svc.Enqueue(ctx, orderID)
	require.NoError(t, err)

	_, err = svc.Enqueue(ctx, orderID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestNextInStagePicksLowestPosition(t *testing.T) {
	db := setupQueueTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	firstOrder := uuid.New()
	secondOrder := uuid.New()
	_, err := svc.Enqueue(ctx, firstOrder)
	require.NoError(t, err)
	_, err = svc.Enqueue(ctx, secondOrder)
	require.NoError(t, err)

	_, err = svc.Advance(ctx, firstOrder, enums.QueueStageWashing)
	require.NoError(t, err)
	_, err = svc.Advance(ctx, secondOrder, enums.QueueStageWashing)
	require.NoError(t, err)

	next, err := svc.NextInStage(ctx, enums.QueueStageWashing)
	require.NoError(t, err)
	assert.Equal(t, firstOrder, next.OrderID)
}

func TestNextInStageEmpty(t *testing.T) {
	db := setupQueueTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.NextInStage(context.Background(), enums.QueueStageIroning)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestAssignAndUnassign(t *testing.T) {
	db := setupQueueTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	orderID := uuid.New()

	_, err := svc.Enqueue(ctx, orderID)
	require.NoError(t, err)

	staff := uuid.New()
	entry, err := svc.Assign(ctx, orderID, &staff)
	require.NoError(t, err)
	require.NotNil(t, entry.AssignedTo)
	assert.Equal(t, staff, *entry.AssignedTo)

	entry, err = svc.Assign(ctx, orderID, nil)
	require.NoError(t, err)
	assert.Nil(t, entry.AssignedTo)
}

func TestRemoveFreesOrderForRequeue(t *testing.T) {
	db := setupQueueTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	orderID := uuid.New()

	_, err := svc.Enqueue(ctx, orderID)
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, orderID))

	err = svc.Remove(ctx, orderID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	// Queue is empty again, so the position restarts at the new tail.
	entry, err := svc.Enqueue(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Position)
}

func TestListFiltersByStage(t *testing.T) {
	db := setupQueueTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	washing := uuid.New()
	_, err := svc.Enqueue(ctx, washing)
	require.NoError(t, err)
	_, err = svc.Enqueue(ctx, uuid.New())
	require.NoError(t, err)

	_, err = svc.Advance(ctx, washing, enums.QueueStageWashing)
	require.NoError(t, err)

	stage := enums.QueueStageWashing
	rows, err := svc.List(ctx, &stage)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, washing, rows[0].OrderID)

	all, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
