package model

import (
	"time"

	"github.com/google/uuid"
)

// Reconciliation records an order header whose items were not fully
// persisted and must be compensated.
type Reconciliation struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	Reason     string
	CreatedAt  time.Time
	ResolvedAt *time.Time
}
