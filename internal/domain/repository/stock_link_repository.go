package repository

import (
	"context"

	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
)

// StockLinkRepository reads variant-to-inventory-item links from the storefront
// catalog. Used to discover every variant contributing to a shared stock record.
type StockLinkRepository interface {
	ListByVariants(ctx context.Context, variantIDs []string) ([]*entity.VariantStockLink, error)
	ListByInventoryItems(ctx context.Context, inventoryItemIDs []string) ([]*entity.VariantStockLink, error)
}
