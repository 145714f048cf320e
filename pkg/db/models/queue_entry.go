package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/cleanfresh/laundry-backend/pkg/enums"
)

// QueueEntry places an order in the processing line. Position is assigned as
// max(position)+1 at enqueue time.
type QueueEntry struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID        `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	Position     int              `gorm:"column:position;not null"`
	CurrentStage enums.QueueStage `gorm:"column:current_stage;not null;default:'registered'"`
	AssignedTo   *uuid.UUID       `gorm:"column:assigned_to;type:uuid"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
}
