package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/DanielPopoola/sberbank-gateway/internal/application"
	"github.com/DanielPopoola/sberbank-gateway/internal/domain"
	"github.com/DanielPopoola/sberbank-gateway/internal/infrastructure/events"
	"github.com/DanielPopoola/sberbank-gateway/sberbank"
	"github.com/google/uuid"
)

type RegisterCommand struct {
	OrderNumber sberbank.MerchantOrderID
	Amount      int64
	ReturnURL   string
}

type OrderService struct {
	orderRepo domain.OrderRepository
	gateway   application.GatewayClient
	publisher application.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewOrderService(
	orderRepo domain.OrderRepository,
	gateway application.GatewayClient,
	publisher application.EventPublisher,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		gateway:   gateway,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Register registers the order with the gateway and stores it.
// An order number already stored locally is rejected before the gateway is called.
func (s *OrderService) Register(ctx context.Context, cmd RegisterCommand) (*domain.Order, error) {
	if !cmd.OrderNumber.Valid() {
		return nil, application.NewInvalidInputError(domain.NewMissingRequiredFieldError("order number"))
	}

	existing, err := s.orderRepo.FindByOrderNumber(ctx, string(cmd.OrderNumber))
	switch {
	case err == nil:
		return existing, domain.NewOrderAlreadyExistsError(existing.OrderNumber)
	case !domain.IsErrorCode(err, domain.ErrCodeOrderNotFound):
		return nil, application.NewInternalError(err)
	}

	result, err := s.gateway.RegisterOrder(ctx, cmd.OrderNumber, cmd.Amount, cmd.ReturnURL)
	if err != nil {
		s.logger.Warn("gateway rejected order registration",
			"order_number", cmd.OrderNumber,
			"category", application.CategorizeError(err),
			"error", err)
		return nil, err
	}

	order, err := domain.NewOrder(uuid.New(), string(cmd.OrderNumber), cmd.Amount, cmd.ReturnURL, result)
	if err != nil {
		return nil, application.NewInvalidInputError(err)
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		if domain.IsErrorCode(err, domain.ErrCodeOrderAlreadyExists) {
			return nil, err
		}
		// The gateway already holds the order; keep its ID in the log so it can be reconciled.
		s.logger.Error("failed to store registered order",
			"order_number", order.OrderNumber,
			"gateway_order_id", order.GatewayOrderID,
			"error", err)
		return nil, application.NewInternalError(err)
	}

	s.logger.Info("order registered",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"gateway_order_id", order.GatewayOrderID)

	return order, nil
}

func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

func (s *OrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return s.orderRepo.FindByOrderNumber(ctx, orderNumber)
}

// RefreshStatus asks the gateway for the current status of the order and stores it.
// Gateway rejections are recorded on the order before being returned.
func (s *OrderService) RefreshStatus(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status, err := s.gateway.GetOrderStatus(ctx, sberbank.GatewayOrderID(order.GatewayOrderID))
	if err != nil {
		if statusErr, ok := sberbank.AsOrderStatusError(err); ok {
			order.RecordCheckFailure(int(statusErr.Code), statusErr.Message, s.now())
			if updateErr := s.orderRepo.UpdateStatus(ctx, order); updateErr != nil {
				s.logger.Error("failed to record status check failure", "order_id", order.ID, "error", updateErr)
			}
		}
		return order, err
	}

	previous := order.Status
	changed, err := order.ApplyStatus(status, s.now())
	if err != nil {
		s.logger.Warn("gateway reported unexpected status",
			"order_id", order.ID,
			"from", previous,
			"to", status)
		return order, err
	}

	if err := s.orderRepo.UpdateStatus(ctx, order); err != nil {
		return nil, application.NewInternalError(err)
	}

	if changed {
		s.logger.Info("order status changed",
			"order_id", order.ID,
			"from", previous,
			"to", order.Status)
		s.publish(ctx, order, previous)
	}

	return order, nil
}

func (s *OrderService) publish(ctx context.Context, order *domain.Order, previous domain.OrderStatus) {
	err := s.publisher.PublishStatusChanged(ctx, events.NewOrderStatusChanged(order, previous))
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("failed to publish status change", "order_id", order.ID, "error", err)
	}
}
