package model

import (
	"time"
)

// Base contains common fields for all records. Ids are assigned by the
// server in insertion order.
type Base struct {
	ID        int64      `json:"id"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func (b Base) GetID() int64 { return b.ID }

// Status values shared by several resources
const (
	StatusAll       = "ALL"
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)
