package postgres

import (
	"time"

	"github.com/google/uuid"
)

// OrderModel is the row layout of the orders table.
type OrderModel struct {
	ID               uuid.UUID
	OrderNumber      string
	GatewayOrderID   string
	AmountKopeks     int64
	ReturnURL        string
	FormURL          string
	Status           int
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CheckedAt        *time.Time
	LastErrorCode    *int
	LastErrorMessage *string
}
