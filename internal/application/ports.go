package application

import (
	"context"

	"github.com/DanielPopoola/sberbank-gateway/internal/infrastructure/events"
	"github.com/DanielPopoola/sberbank-gateway/sberbank"
)

// GatewayClient is the port for the Sberbank payment gateway.
type GatewayClient interface {
	RegisterOrder(ctx context.Context, orderID sberbank.MerchantOrderID, amount int64, returnURL string) (*sberbank.RegistrationResult, error)
	GetOrderStatus(ctx context.Context, orderID sberbank.GatewayOrderID) (sberbank.OrderStatus, error)
}

// EventPublisher is the port for order status notifications.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, event events.OrderStatusChanged) error
}
