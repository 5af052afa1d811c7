package postgres

import (
	"github.com/DanielPopoola/sberbank-gateway/internal/domain"
)

// toDomainModel: maps db model to domain entity
func toDomainModel(m OrderModel) *domain.Order {
	return &domain.Order{
		ID:               m.ID,
		OrderNumber:      m.OrderNumber,
		GatewayOrderID:   m.GatewayOrderID,
		AmountKopeks:     m.AmountKopeks,
		ReturnURL:        m.ReturnURL,
		FormURL:          m.FormURL,
		Status:           domain.OrderStatus(m.Status),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		CheckedAt:        m.CheckedAt,
		LastErrorCode:    m.LastErrorCode,
		LastErrorMessage: m.LastErrorMessage,
	}
}

// toDBModel: maps domain entity to db model
func toDBModel(o *domain.Order) *OrderModel {
	return &OrderModel{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		GatewayOrderID:   o.GatewayOrderID,
		AmountKopeks:     o.AmountKopeks,
		ReturnURL:        o.ReturnURL,
		FormURL:          o.FormURL,
		Status:           int(o.Status),
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
		CheckedAt:        o.CheckedAt,
		LastErrorCode:    o.LastErrorCode,
		LastErrorMessage: o.LastErrorMessage,
	}
}
