// Package domain holds the merchant-side view of an order registered with the gateway.
package domain

import (
	"slices"
	"time"

	"github.com/DanielPopoola/sberbank-gateway/sberbank"
	"github.com/google/uuid"
)

// OrderStatus mirrors the gateway status numbering, unknown values included.
type OrderStatus = sberbank.OrderStatus

type Order struct {
	ID             uuid.UUID
	OrderNumber    string
	GatewayOrderID string
	AmountKopeks   int64
	ReturnURL      string
	FormURL        string
	Status         OrderStatus

	CreatedAt time.Time
	UpdatedAt time.Time
	CheckedAt *time.Time

	LastErrorCode    *int
	LastErrorMessage *string
}

// NewOrder builds an order from a successful registration.
func NewOrder(
	id uuid.UUID,
	orderNumber string,
	amountKopeks int64,
	returnURL string,
	registration *sberbank.RegistrationResult,
) (*Order, error) {
	if id == uuid.Nil {
		return nil, NewMissingRequiredFieldError("order ID")
	}
	if orderNumber == "" {
		return nil, NewMissingRequiredFieldError("order number")
	}
	if amountKopeks < 0 {
		return nil, NewInvalidAmountError(amountKopeks)
	}
	if registration == nil || registration.OrderID == "" {
		return nil, NewMissingRequiredFieldError("gateway order ID")
	}

	now := time.Now().UTC()
	return &Order{
		ID:             id,
		OrderNumber:    orderNumber,
		GatewayOrderID: string(registration.OrderID),
		AmountKopeks:   amountKopeks,
		ReturnURL:      returnURL,
		FormURL:        registration.FormURL,
		Status:         sberbank.OrderStatusRegistered,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// ApplyStatus records a status reported by the gateway and tells whether it changed.
func (o *Order) ApplyStatus(status OrderStatus, at time.Time) (bool, error) {
	if err := o.canTransitionTo(status); err != nil {
		return false, err
	}

	o.CheckedAt = &at
	o.LastErrorCode = nil
	o.LastErrorMessage = nil

	if o.Status == status {
		return false, nil
	}

	o.Status = status
	o.UpdatedAt = at
	return true, nil
}

// RecordCheckFailure keeps the last gateway error seen while polling.
func (o *Order) RecordCheckFailure(code int, message string, at time.Time) {
	o.CheckedAt = &at
	o.LastErrorCode = &code
	o.LastErrorMessage = &message
}

// Pending reports whether the order still needs polling.
func (o *Order) Pending() bool {
	return !o.Status.Final()
}

func (o *Order) canTransitionTo(target OrderStatus) error {
	if o.Status == target || !o.Status.Known() {
		return nil
	}

	switch o.Status {
	case sberbank.OrderStatusRegistered:
		return nil
	case sberbank.OrderStatusCompleted:
		return o.allow(target, sberbank.OrderStatusRefunded, sberbank.OrderStatusCanceled)
	default:
		return NewInvalidTransitionError(o.Status, target)
	}
}

func (o *Order) allow(target OrderStatus, allowed ...OrderStatus) error {
	if slices.Contains(allowed, target) {
		return nil
	}
	return NewInvalidTransitionError(o.Status, target)
}
