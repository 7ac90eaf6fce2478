package postgres

import (
	"context"
	"fmt"

	"github.com/avelar-dev/lotstock-api/internal/domain"
	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
	"github.com/avelar-dev/lotstock-api/internal/domain/repository"
)

var _ repository.InventoryLevelRepository = (*InventoryLevelRepo)(nil)

// InventoryLevelRepo writes recomputed stock totals into the storefront's
// inventory-level table.
type InventoryLevelRepo struct {
	q Querier
}

// NewInventoryLevelRepository builds the adapter for inventory levels.
func NewInventoryLevelRepository(q Querier) *InventoryLevelRepo {
	return &InventoryLevelRepo{q: q}
}

// ListByInventoryItem returns an item's location-level records, in stable order.
func (r *InventoryLevelRepo) ListByInventoryItem(ctx context.Context, inventoryItemID string) ([]*entity.InventoryLevel, error) {
	rows, err := r.q.Query(ctx, `
		SELECT inventory_item_id, location_id, stocked_quantity, updated_at
		FROM inventory_levels WHERE inventory_item_id = $1 ORDER BY location_id`, inventoryItemID)
	if err != nil {
		return nil, fmt.Errorf("list inventory levels: %w", err)
	}
	defer rows.Close()
	var out []*entity.InventoryLevel
	for rows.Next() {
		var l entity.InventoryLevel
		if err := rows.Scan(&l.InventoryItemID, &l.LocationID, &l.StockedQuantity, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory level: %w", err)
		}
		out = append(out, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory levels: %w", err)
	}
	return out, nil
}

// Create inserts a level record for an item that had none.
func (r *InventoryLevelRepo) Create(ctx context.Context, level *entity.InventoryLevel) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_levels (inventory_item_id, location_id, stocked_quantity, updated_at)
		VALUES ($1, $2, $3, $4)`,
		level.InventoryItemID, level.LocationID, level.StockedQuantity, level.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory level: %w", err)
	}
	return nil
}

// UpdateStockedQuantity sets one location's stocked quantity.
func (r *InventoryLevelRepo) UpdateStockedQuantity(ctx context.Context, inventoryItemID, locationID string, quantity int64) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE inventory_levels SET stocked_quantity = $3, updated_at = now()
		WHERE inventory_item_id = $1 AND location_id = $2`,
		inventoryItemID, locationID, quantity,
	)
	if err != nil {
		return fmt.Errorf("update inventory level: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
