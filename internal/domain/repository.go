package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type OrderRepository interface {
	Create(ctx context.Context, order *Order) error

	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindPending returns orders not in a final status that were last checked before olderThan.
	FindPending(ctx context.Context, olderThan time.Time, limit int) ([]*Order, error)

	UpdateStatus(ctx context.Context, order *Order) error
}
