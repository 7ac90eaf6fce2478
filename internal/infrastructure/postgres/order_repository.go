package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
	"github.com/avelar-dev/lotstock-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo reads orders and their line items from the storefront schema.
// Read-only: this service never writes orders.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository builds the read adapter for orders.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// GetByID fetches an order with its line items, nil when absent or purged.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var order entity.Order
	err := r.q.QueryRow(ctx, `SELECT id FROM orders WHERE id = $1`, id).Scan(&order.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, COALESCE(variant_id, ''), quantity
		FROM order_line_items WHERE order_id = $1 ORDER BY created_at, id`, id)
	if err != nil {
		return nil, fmt.Errorf("list order line items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.OrderLineItem
		if err := rows.Scan(&item.ID, &item.VariantID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order line item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order line items: %w", err)
	}
	return &order, nil
}
