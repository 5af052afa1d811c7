package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DanielPopoola/sberbank-gateway/internal/domain"
	"github.com/DanielPopoola/sberbank-gateway/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/sberbank-gateway/internal/infrastructure/persistence/postgres/testhelpers"
	"github.com/DanielPopoola/sberbank-gateway/sberbank"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(t *testing.T, orderNumber string) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(uuid.New(), orderNumber, 12500, "https://shop.example/return", &sberbank.RegistrationResult{
		OrderID: sberbank.GatewayOrderID(uuid.NewString()),
		FormURL: "https://3dsec.sberbank.ru/payment/merchants/shop/payment_ru.html",
	})
	require.NoError(t, err)
	return order
}

func TestOrderRepository(t *testing.T) {
	testDB := testhelpers.SetupTestDatabase(t)
	defer testDB.Cleanup(t)

	repo := postgres.NewOrderRepository(testDB.DB)
	ctx := context.Background()

	t.Run("create and find", func(t *testing.T) {
		testDB.CleanTables(t)
		order := newOrder(t, "order-1")

		require.NoError(t, repo.Create(ctx, order))

		byID, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.OrderNumber, byID.OrderNumber)
		assert.Equal(t, order.GatewayOrderID, byID.GatewayOrderID)
		assert.Equal(t, sberbank.OrderStatusRegistered, byID.Status)
		assert.WithinDuration(t, order.CreatedAt, byID.CreatedAt, time.Millisecond)

		byNumber, err := repo.FindByOrderNumber(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, order.ID, byNumber.ID)
	})

	t.Run("duplicate order number", func(t *testing.T) {
		testDB.CleanTables(t)
		require.NoError(t, repo.Create(ctx, newOrder(t, "order-dup")))

		err := repo.Create(ctx, newOrder(t, "order-dup"))

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeOrderAlreadyExists))
	})

	t.Run("not found", func(t *testing.T) {
		testDB.CleanTables(t)

		_, err := repo.FindByID(ctx, uuid.New())

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeOrderNotFound))
	})

	t.Run("update status", func(t *testing.T) {
		testDB.CleanTables(t)
		order := newOrder(t, "order-2")
		require.NoError(t, repo.Create(ctx, order))

		_, err := order.ApplyStatus(sberbank.OrderStatusCompleted, time.Now().UTC())
		require.NoError(t, err)
		require.NoError(t, repo.UpdateStatus(ctx, order))

		stored, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, sberbank.OrderStatusCompleted, stored.Status)
		assert.NotNil(t, stored.CheckedAt)
	})

	t.Run("update missing order", func(t *testing.T) {
		testDB.CleanTables(t)

		err := repo.UpdateStatus(ctx, newOrder(t, "order-ghost"))

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeOrderNotFound))
	})

	t.Run("find pending skips final and recently checked orders", func(t *testing.T) {
		testDB.CleanTables(t)
		now := time.Now().UTC()

		pending := newOrder(t, "order-pending")
		pending.CreatedAt = now.Add(-10 * time.Minute)
		require.NoError(t, repo.Create(ctx, pending))

		unknown := newOrder(t, "order-unknown")
		unknown.CreatedAt = now.Add(-10 * time.Minute)
		require.NoError(t, repo.Create(ctx, unknown))
		_, err := unknown.ApplyStatus(sberbank.OrderStatus(5), now.Add(-5*time.Minute))
		require.NoError(t, err)
		require.NoError(t, repo.UpdateStatus(ctx, unknown))

		completed := newOrder(t, "order-completed")
		completed.CreatedAt = now.Add(-10 * time.Minute)
		require.NoError(t, repo.Create(ctx, completed))
		_, err = completed.ApplyStatus(sberbank.OrderStatusCompleted, now.Add(-5*time.Minute))
		require.NoError(t, err)
		require.NoError(t, repo.UpdateStatus(ctx, completed))

		fresh := newOrder(t, "order-fresh")
		require.NoError(t, repo.Create(ctx, fresh))

		orders, err := repo.FindPending(ctx, now.Add(-time.Minute), 10)

		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, "order-pending", orders[0].OrderNumber)
		assert.Equal(t, "order-unknown", orders[1].OrderNumber)
	})
}
