package allocation

import (
	"context"

	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
	"github.com/avelar-dev/lotstock-api/internal/domain/repository"
)

// ReleaseResult reports what one release pass freed.
type ReleaseResult struct {
	Deleted    []*entity.Allocation
	VariantIDs []string // variants whose availability changed
}

// Release deletes every allocation created for the order, freeing lot quantity
// back to availability. The order's line items are the primary link; when the
// order record is no longer retrievable (already purged), the allocation metadata
// order id is the independent fallback link. Idempotent: releasing an order with
// no remaining allocations is a no-op.
func (e *Engine) Release(ctx context.Context, orderID string) (*ReleaseResult, error) {
	res := &ReleaseResult{}
	err := e.tx.Run(ctx, func(batchRepo repository.BatchRepository, allocRepo repository.AllocationRepository) error {
		order, err := e.orders.GetByID(ctx, orderID)
		if err != nil {
			e.log.Warn().Err(err).Str("order_id", orderID).Msg("order not retrievable, releasing by metadata")
			order = nil
		}

		if order != nil {
			for _, item := range order.Items {
				deleted, err := allocRepo.DeleteByLineItem(ctx, item.ID)
				if err != nil {
					return err
				}
				res.Deleted = append(res.Deleted, deleted...)
			}
		}

		// Sweep by metadata as well: covers purged orders and line items removed
		// from the order after allocation.
		deleted, err := allocRepo.DeleteByOrder(ctx, orderID)
		if err != nil {
			return err
		}
		res.Deleted = append(res.Deleted, deleted...)

		return e.collectVariants(ctx, batchRepo, res)
	})
	if err != nil {
		return nil, err
	}
	if len(res.Deleted) > 0 {
		e.log.Info().
			Str("order_id", orderID).
			Int("allocations", len(res.Deleted)).
			Msg("released order allocations")
	}
	return res, nil
}

// collectVariants maps the deleted allocations back to their variants so the
// caller knows which availability totals to resync.
func (e *Engine) collectVariants(ctx context.Context, batchRepo repository.BatchRepository, res *ReleaseResult) error {
	if len(res.Deleted) == 0 {
		return nil
	}
	batchIDs := make([]string, 0, len(res.Deleted))
	seen := make(map[string]bool, len(res.Deleted))
	for _, a := range res.Deleted {
		if !seen[a.BatchID] {
			seen[a.BatchID] = true
			batchIDs = append(batchIDs, a.BatchID)
		}
	}
	batches, err := batchRepo.ListByIDs(ctx, batchIDs)
	if err != nil {
		return err
	}
	for _, b := range batches {
		res.VariantIDs = appendUnique(res.VariantIDs, b.VariantID)
	}
	return nil
}
