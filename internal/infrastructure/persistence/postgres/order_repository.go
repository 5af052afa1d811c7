package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DanielPopoola/sberbank-gateway/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const orderColumns = `
	id, order_number, gateway_order_id, amount_kopeks, return_url, form_url, status,
	created_at, updated_at, checked_at, last_error_code, last_error_message
`

type OrderRepository struct {
	q Executor
}

func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{q: db.Pool}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	m := toDBModel(order)
	_, err := r.q.Exec(ctx, query,
		m.ID,
		m.OrderNumber,
		m.GatewayOrderID,
		m.AmountKopeks,
		m.ReturnURL,
		m.FormURL,
		m.Status,
		m.CreatedAt,
		m.UpdatedAt,
		m.CheckedAt,
		m.LastErrorCode,
		m.LastErrorMessage,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.NewOrderAlreadyExistsError(order.OrderNumber)
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// FindByID retrieves an order by its local id
func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	row := r.q.QueryRow(ctx, query, id)
	return scanOrder(row, id.String())
}

// FindByOrderNumber retrieves an order by the merchant order number
func (r *OrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`

	row := r.q.QueryRow(ctx, query, orderNumber)
	return scanOrder(row, orderNumber)
}

// FindPending returns orders still waiting for a final status, least recently checked first
func (r *OrderRepository) FindPending(ctx context.Context, olderThan time.Time, limit int) ([]*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE status NOT IN (2, 3, 4, 6)
		  AND COALESCE(checked_at, created_at) < $1
		ORDER BY checked_at NULLS FIRST, created_at ASC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending orders: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Order, error) {
		m, err := scanModel(row)
		if err != nil {
			return nil, err
		}
		return toDomainModel(m), nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan pending orders: %w", err)
	}

	return results, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2, checked_at = $3,
			last_error_code = $4, last_error_message = $5
		WHERE id = $6
	`

	m := toDBModel(order)
	result, err := r.q.Exec(ctx, query,
		m.Status,
		m.UpdatedAt,
		m.CheckedAt,
		m.LastErrorCode,
		m.LastErrorMessage,
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.NewOrderNotFoundError(order.ID.String())
	}

	return nil
}

func scanModel(row pgx.Row) (OrderModel, error) {
	var m OrderModel
	err := row.Scan(
		&m.ID, &m.OrderNumber, &m.GatewayOrderID, &m.AmountKopeks, &m.ReturnURL, &m.FormURL, &m.Status,
		&m.CreatedAt, &m.UpdatedAt, &m.CheckedAt, &m.LastErrorCode, &m.LastErrorMessage,
	)
	return m, err
}

// scanOrder converts a database row into a domain Order.
// Returns an ORDER_NOT_FOUND domain error if the row doesn't exist.
func scanOrder(row pgx.Row, ref string) (*domain.Order, error) {
	m, err := scanModel(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewOrderNotFoundError(ref)
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	return toDomainModel(m), nil
}
