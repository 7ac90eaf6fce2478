// Package stocksync pushes recomputed views of the lot data into the storefront's
// external stores: available-to-sell totals into the inventory-level store and
// cost-derived prices into the pricing store. Both adapters are best-effort side
// effects of a batch mutation; callers log failures and keep the mutation.
package stocksync

import (
	"context"
	"time"

	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
	"github.com/avelar-dev/lotstock-api/internal/domain/lot"
	"github.com/avelar-dev/lotstock-api/internal/domain/repository"
	"github.com/avelar-dev/lotstock-api/pkg/logger"
)

// InventorySync recomputes external inventory levels for every stock-keeping item
// touched by a set of variants.
type InventorySync struct {
	batches           repository.BatchRepository
	allocs            repository.AllocationRepository
	links             repository.StockLinkRepository
	levels            repository.InventoryLevelRepository
	defaultLocationID string
	log               *logger.Logger
}

// NewInventorySync builds the adapter.
func NewInventorySync(
	batches repository.BatchRepository,
	allocs repository.AllocationRepository,
	links repository.StockLinkRepository,
	levels repository.InventoryLevelRepository,
	defaultLocationID string,
	log *logger.Logger,
) *InventorySync {
	return &InventorySync{
		batches:           batches,
		allocs:            allocs,
		links:             links,
		levels:            levels,
		defaultLocationID: defaultLocationID,
		log:               log,
	}
}

// SyncVariants recomputes the target stocked quantity of every inventory item
// linked to the given variants. Items shared with other variants (multipacks) are
// recomputed from all their contributing variants:
//
//	target = Σ available(variant) × required_quantity(link)
//
// Variants flagged as not inventory-managed never contribute and are never synced.
func (s *InventorySync) SyncVariants(ctx context.Context, variantIDs []string) error {
	if len(variantIDs) == 0 {
		return nil
	}
	links, err := s.links.ListByVariants(ctx, variantIDs)
	if err != nil {
		return err
	}
	var itemIDs []string
	seen := map[string]bool{}
	for _, l := range links {
		if !l.Managed || seen[l.InventoryItemID] {
			continue
		}
		seen[l.InventoryItemID] = true
		itemIDs = append(itemIDs, l.InventoryItemID)
	}
	if len(itemIDs) == 0 {
		return nil
	}

	// Pull in sibling variants sharing those items.
	allLinks, err := s.links.ListByInventoryItems(ctx, itemIDs)
	if err != nil {
		return err
	}
	byItem := map[string][]*entity.VariantStockLink{}
	for _, l := range allLinks {
		byItem[l.InventoryItemID] = append(byItem[l.InventoryItemID], l)
	}

	availability := map[string]int64{}
	for _, itemID := range itemIDs {
		var target int64
		for _, l := range byItem[itemID] {
			if !l.Managed {
				continue
			}
			avail, err := s.variantAvailable(ctx, availability, l.VariantID)
			if err != nil {
				return err
			}
			target += avail * l.RequiredQuantity
		}
		if err := s.writeLevels(ctx, itemID, target); err != nil {
			return err
		}
		s.log.Debug().
			Str("inventory_item_id", itemID).
			Int64("stocked_quantity", target).
			Msg("inventory level synced")
	}
	return nil
}

func (s *InventorySync) variantAvailable(ctx context.Context, cache map[string]int64, variantID string) (int64, error) {
	if avail, ok := cache[variantID]; ok {
		return avail, nil
	}
	batches, err := s.batches.ListByVariant(ctx, variantID)
	if err != nil {
		return 0, err
	}
	batchIDs := make([]string, 0, len(batches))
	for _, b := range batches {
		batchIDs = append(batchIDs, b.ID)
	}
	allocs, err := s.allocs.ListByBatchIDs(ctx, batchIDs)
	if err != nil {
		return 0, err
	}
	avail := lot.VariantAvailable(batches, allocs)
	cache[variantID] = avail
	return avail, nil
}

// writeLevels distributes the item's new total across its existing location
// records proportionally to their current share; the last location absorbs the
// rounding remainder. When the item has no level records yet, one is created at
// the default stock location.
func (s *InventorySync) writeLevels(ctx context.Context, itemID string, target int64) error {
	levels, err := s.levels.ListByInventoryItem(ctx, itemID)
	if err != nil {
		return err
	}
	if len(levels) == 0 {
		return s.levels.Create(ctx, &entity.InventoryLevel{
			InventoryItemID: itemID,
			LocationID:      s.defaultLocationID,
			StockedQuantity: target,
			UpdatedAt:       time.Now(),
		})
	}

	var currentTotal int64
	for _, l := range levels {
		currentTotal += l.StockedQuantity
	}
	var assigned int64
	for i, l := range levels {
		var share int64
		if i == len(levels)-1 {
			share = target - assigned
		} else if currentTotal > 0 {
			share = target * l.StockedQuantity / currentTotal
		}
		assigned += share
		if share == l.StockedQuantity {
			continue
		}
		if err := s.levels.UpdateStockedQuantity(ctx, itemID, l.LocationID, share); err != nil {
			return err
		}
	}
	return nil
}
