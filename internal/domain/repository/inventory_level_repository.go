package repository

import (
	"context"

	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
)

// InventoryLevelRepository writes recomputed stock totals into the storefront's
// inventory-level store, keyed by inventory item and location.
type InventoryLevelRepository interface {
	ListByInventoryItem(ctx context.Context, inventoryItemID string) ([]*entity.InventoryLevel, error)
	Create(ctx context.Context, level *entity.InventoryLevel) error
	UpdateStockedQuantity(ctx context.Context, inventoryItemID, locationID string, quantity int64) error
}
