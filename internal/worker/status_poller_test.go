package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DanielPopoola/sberbank-gateway/internal/application/mocks"
	"github.com/DanielPopoola/sberbank-gateway/internal/domain"
	"github.com/DanielPopoola/sberbank-gateway/sberbank"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type refresherMock struct {
	mock.Mock
}

func (m *refresherMock) RefreshStatus(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func newPoller(repo *mocks.OrderRepositoryMock, refresher *refresherMock) *StatusPoller {
	p := NewStatusPoller(repo, refresher, time.Minute, 10, 2*time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	p.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	return p
}

func pendingOrder() *domain.Order {
	return &domain.Order{
		ID:             uuid.New(),
		OrderNumber:    "1001",
		GatewayOrderID: "14613d21-71b4-45eb-81f9-12dc21a12253",
		Status:         sberbank.OrderStatusRegistered,
	}
}

func TestStatusPoller_RunOnce_RefreshesPendingOrders(t *testing.T) {
	repo := new(mocks.OrderRepositoryMock)
	refresher := new(refresherMock)
	poller := newPoller(repo, refresher)
	first, second := pendingOrder(), pendingOrder()

	cutoff := time.Date(2026, 10, 19, 11, 58, 0, 0, time.UTC)
	repo.On("FindPending", mock.Anything, cutoff, 10).Return([]*domain.Order{first, second}, nil).Once()
	refresher.On("RefreshStatus", mock.Anything, first.ID).Return(first, nil).Once()
	refresher.On("RefreshStatus", mock.Anything, second.ID).Return(second, nil).Once()

	refreshed := poller.RunOnce(context.Background())

	assert.Equal(t, 2, refreshed)
	repo.AssertExpectations(t)
	refresher.AssertExpectations(t)
}

func TestStatusPoller_RunOnce_ContinuesAfterFailure(t *testing.T) {
	repo := new(mocks.OrderRepositoryMock)
	refresher := new(refresherMock)
	poller := newPoller(repo, refresher)
	failing, ok := pendingOrder(), pendingOrder()

	repo.On("FindPending", mock.Anything, mock.Anything, 10).Return([]*domain.Order{failing, ok}, nil).Once()
	refresher.On("RefreshStatus", mock.Anything, failing.ID).Return(nil, &sberbank.Error{
		Code:    sberbank.ErrCodeTransport,
		Message: "request to /getOrderStatus.do failed",
	}).Once()
	refresher.On("RefreshStatus", mock.Anything, ok.ID).Return(ok, nil).Once()

	refreshed := poller.RunOnce(context.Background())

	assert.Equal(t, 1, refreshed)
	refresher.AssertExpectations(t)
}

func TestStatusPoller_RunOnce_RepositoryError(t *testing.T) {
	repo := new(mocks.OrderRepositoryMock)
	refresher := new(refresherMock)
	poller := newPoller(repo, refresher)

	repo.On("FindPending", mock.Anything, mock.Anything, 10).Return(nil, errors.New("db down")).Once()

	refreshed := poller.RunOnce(context.Background())

	assert.Zero(t, refreshed)
	refresher.AssertNotCalled(t, "RefreshStatus", mock.Anything, mock.Anything)
}

func TestStatusPoller_RunOnce_StopsOnCancelledContext(t *testing.T) {
	repo := new(mocks.OrderRepositoryMock)
	refresher := new(refresherMock)
	poller := newPoller(repo, refresher)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo.On("FindPending", mock.Anything, mock.Anything, 10).Return([]*domain.Order{pendingOrder()}, nil).Once()

	refreshed := poller.RunOnce(ctx)

	assert.Zero(t, refreshed)
	refresher.AssertNotCalled(t, "RefreshStatus", mock.Anything, mock.Anything)
}

func TestStatusPoller_Start_StopsWithContext(t *testing.T) {
	repo := new(mocks.OrderRepositoryMock)
	refresher := new(refresherMock)
	poller := NewStatusPoller(repo, refresher, 10*time.Millisecond, 10, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))

	repo.On("FindPending", mock.Anything, mock.Anything, 10).Return([]*domain.Order{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		poller.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
	repo.AssertCalled(t, "FindPending", mock.Anything, mock.Anything, 10)
}
