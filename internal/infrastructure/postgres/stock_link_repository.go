package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
	"github.com/avelar-dev/lotstock-api/internal/domain/repository"
)

var _ repository.StockLinkRepository = (*StockLinkRepo)(nil)

// StockLinkRepo reads variant-to-inventory-item links from the storefront
// catalog. Read-only.
type StockLinkRepo struct {
	q Querier
}

// NewStockLinkRepository builds the read adapter for stock links.
func NewStockLinkRepository(q Querier) *StockLinkRepo {
	return &StockLinkRepo{q: q}
}

const stockLinkQuery = `
	SELECT l.variant_id, l.inventory_item_id, l.required_quantity,
		COALESCE(v.manage_inventory, true)
	FROM variant_inventory_items l
	JOIN product_variants v ON v.id = l.variant_id`

// ListByVariants returns the links of the given variants.
func (r *StockLinkRepo) ListByVariants(ctx context.Context, variantIDs []string) ([]*entity.VariantStockLink, error) {
	if len(variantIDs) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, stockLinkQuery+` WHERE l.variant_id = ANY($1)`, variantIDs)
	if err != nil {
		return nil, fmt.Errorf("list stock links by variants: %w", err)
	}
	return scanStockLinks(rows)
}

// ListByInventoryItems returns every link touching the given inventory items,
// pulling in sibling variants that share them.
func (r *StockLinkRepo) ListByInventoryItems(ctx context.Context, inventoryItemIDs []string) ([]*entity.VariantStockLink, error) {
	if len(inventoryItemIDs) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, stockLinkQuery+` WHERE l.inventory_item_id = ANY($1)`, inventoryItemIDs)
	if err != nil {
		return nil, fmt.Errorf("list stock links by inventory items: %w", err)
	}
	return scanStockLinks(rows)
}

func scanStockLinks(rows pgx.Rows) ([]*entity.VariantStockLink, error) {
	defer rows.Close()
	var out []*entity.VariantStockLink
	for rows.Next() {
		var l entity.VariantStockLink
		if err := rows.Scan(&l.VariantID, &l.InventoryItemID, &l.RequiredQuantity, &l.Managed); err != nil {
			return nil, fmt.Errorf("scan stock link: %w", err)
		}
		out = append(out, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock links: %w", err)
	}
	return out, nil
}
