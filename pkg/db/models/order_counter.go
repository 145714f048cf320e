package models

import "time"

// OrderCounter backs order-number generation with an atomic per-day sequence.
// Day is the YYYYMMDD bucket embedded in the order number.
type OrderCounter struct {
	Day       string    `gorm:"column:day;primaryKey"`
	LastSeq   int       `gorm:"column:last_seq;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
