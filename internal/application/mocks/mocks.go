// Package mocks provides testify mocks for the application ports.
package mocks

import (
	"context"
	"time"

	"github.com/DanielPopoola/sberbank-gateway/internal/domain"
	"github.com/DanielPopoola/sberbank-gateway/internal/infrastructure/events"
	"github.com/DanielPopoola/sberbank-gateway/sberbank"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type GatewayClientMock struct {
	mock.Mock
}

func (m *GatewayClientMock) RegisterOrder(ctx context.Context, orderID sberbank.MerchantOrderID, amount int64, returnURL string) (*sberbank.RegistrationResult, error) {
	args := m.Called(ctx, orderID, amount, returnURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sberbank.RegistrationResult), args.Error(1)
}

func (m *GatewayClientMock) GetOrderStatus(ctx context.Context, orderID sberbank.GatewayOrderID) (sberbank.OrderStatus, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(sberbank.OrderStatus), args.Error(1)
}

type OrderRepositoryMock struct {
	mock.Mock
}

func (m *OrderRepositoryMock) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepositoryMock) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *OrderRepositoryMock) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *OrderRepositoryMock) FindPending(ctx context.Context, olderThan time.Time, limit int) ([]*domain.Order, error) {
	args := m.Called(ctx, olderThan, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Order), args.Error(1)
}

func (m *OrderRepositoryMock) UpdateStatus(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

type EventPublisherMock struct {
	mock.Mock
}

func (m *EventPublisherMock) PublishStatusChanged(ctx context.Context, event events.OrderStatusChanged) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
