package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/DanielPopoola/sberbank-gateway/internal/application"
	"github.com/DanielPopoola/sberbank-gateway/internal/domain"
	"github.com/google/uuid"
)

type StatusRefresher interface {
	RefreshStatus(ctx context.Context, id uuid.UUID) (*domain.Order, error)
}

// StatusPoller keeps non-final orders in sync with the gateway.
type StatusPoller struct {
	repo      domain.OrderRepository
	refresher StatusRefresher
	interval  time.Duration
	batchSize int
	minAge    time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

func NewStatusPoller(
	repo domain.OrderRepository,
	refresher StatusRefresher,
	interval time.Duration,
	batchSize int,
	minAge time.Duration,
	logger *slog.Logger,
) *StatusPoller {
	return &StatusPoller{
		repo:      repo,
		refresher: refresher,
		interval:  interval,
		batchSize: batchSize,
		minAge:    minAge,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (p *StatusPoller) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("starting status poller", "interval", p.interval, "batch_size", p.batchSize)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("stopping status poller")
			return
		case <-ticker.C:
			p.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single polling cycle and returns the number of orders refreshed.
func (p *StatusPoller) RunOnce(ctx context.Context) int {
	orders, err := p.repo.FindPending(ctx, p.now().Add(-p.minAge), p.batchSize)
	if err != nil {
		p.logger.Error("failed to find pending orders", "error", err)
		return 0
	}

	var refreshed int
	for _, order := range orders {
		if ctx.Err() != nil {
			break
		}

		if _, err := p.refresher.RefreshStatus(ctx, order.ID); err != nil {
			p.logger.Warn("status refresh failed",
				"order_id", order.ID,
				"gateway_order_id", order.GatewayOrderID,
				"category", application.CategorizeError(err),
				"retryable", application.IsRetryable(err),
				"error", err)
			continue
		}
		refreshed++
	}

	if refreshed > 0 {
		p.logger.Info("refreshed pending orders", "count", refreshed, "batch", len(orders))
	}

	return refreshed
}
