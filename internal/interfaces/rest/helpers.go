package rest

import (
	"time"

	"github.com/DanielPopoola/sberbank-gateway/internal/domain"
)

type Order struct {
	ID               string     `json:"id"`
	OrderNumber      string     `json:"order_number"`
	GatewayOrderID   string     `json:"gateway_order_id"`
	AmountKopeks     int64      `json:"amount_kopeks"`
	ReturnURL        string     `json:"return_url"`
	FormURL          string     `json:"form_url"`
	Status           int        `json:"status"`
	StatusName       string     `json:"status_name"`
	Final            bool       `json:"final"`
	LastErrorCode    *int       `json:"last_error_code,omitempty"`
	LastErrorMessage *string    `json:"last_error_message,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	CheckedAt        *time.Time `json:"checked_at,omitempty"`
}

func ToAPIOrder(o *domain.Order) Order {
	return Order{
		ID:               o.ID.String(),
		OrderNumber:      o.OrderNumber,
		GatewayOrderID:   o.GatewayOrderID,
		AmountKopeks:     o.AmountKopeks,
		ReturnURL:        o.ReturnURL,
		FormURL:          o.FormURL,
		Status:           int(o.Status),
		StatusName:       o.Status.String(),
		Final:            o.Status.Final(),
		LastErrorCode:    o.LastErrorCode,
		LastErrorMessage: o.LastErrorMessage,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
		CheckedAt:        o.CheckedAt,
	}
}
