package allocation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/avelar-dev/lotstock-api/internal/domain"
	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
	"github.com/avelar-dev/lotstock-api/internal/domain/lot"
	"github.com/avelar-dev/lotstock-api/internal/domain/repository"
	"github.com/avelar-dev/lotstock-api/pkg/logger"
)

// Engine allocates dated lots to paid orders (oldest lot first) and releases them
// when an order is canceled.
type Engine struct {
	tx     TxRunner
	orders repository.OrderRepository
	log    *logger.Logger
}

// NewEngine builds the engine.
func NewEngine(tx TxRunner, orders repository.OrderRepository, log *logger.Logger) *Engine {
	return &Engine{tx: tx, orders: orders, log: log}
}

// Shortfall reports demand that could not be covered by any lot. Non-fatal:
// payment was already captured, so allocation is best-effort bookkeeping.
type Shortfall struct {
	OrderID    string
	LineItemID string
	VariantID  string
	Missing    int64
}

// Result reports what one allocation pass did.
type Result struct {
	Created    []*entity.Allocation
	Shortfalls []Shortfall
	VariantIDs []string // variants whose availability changed
}

// Allocate walks the order's line items and consumes available lot quantity
// oldest-first until each item's outstanding demand is covered. Safe to re-invoke
// for the same order: demand already covered by existing allocations is skipped.
//
// A hard failure on one line item does not stop the others; the first such error
// is returned after the pass so the caller still sees it.
func (e *Engine) Allocate(ctx context.Context, orderID string) (*Result, error) {
	order, err := e.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}

	res := &Result{}
	var firstErr error
	err = e.tx.Run(ctx, func(batchRepo repository.BatchRepository, allocRepo repository.AllocationRepository) error {
		for _, item := range order.Items {
			if item.VariantID == "" || item.Quantity <= 0 {
				continue
			}
			if err := e.allocateItem(ctx, batchRepo, allocRepo, orderID, item, res); err != nil {
				e.log.Error().Err(err).
					Str("order_id", orderID).
					Str("line_item_id", item.ID).
					Msg("line item allocation failed")
				if firstErr == nil {
					firstErr = err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, firstErr
}

func (e *Engine) allocateItem(
	ctx context.Context,
	batchRepo repository.BatchRepository,
	allocRepo repository.AllocationRepository,
	orderID string,
	item entity.OrderLineItem,
	res *Result,
) error {
	existing, err := allocRepo.ListByLineItem(ctx, item.ID)
	if err != nil {
		return err
	}
	var already int64
	for _, a := range existing {
		already += a.Quantity
	}
	remaining := item.Quantity - already
	if remaining <= 0 {
		// already satisfied by a previous pass
		return nil
	}

	// Row lock on the variant's batches: serializes concurrent passes.
	batches, err := batchRepo.ListByVariantForUpdate(ctx, item.VariantID)
	if err != nil {
		return err
	}
	batchIDs := make([]string, 0, len(batches))
	for _, b := range batches {
		batchIDs = append(batchIDs, b.ID)
	}
	allocs, err := allocRepo.ListByBatchIDs(ctx, batchIDs)
	if err != nil {
		return err
	}
	allocated := lot.AllocatedByBatch(allocs)

	now := time.Now()
	changed := false
	for _, b := range lot.SortFIFO(batches) {
		if remaining == 0 {
			break
		}
		if b.Quantity <= 0 {
			continue
		}
		available := lot.Available(b, allocated[b.ID])
		if available <= 0 {
			continue
		}
		take := available
		if remaining < take {
			take = remaining
		}
		alloc := &entity.Allocation{
			ID:         uuid.New().String(),
			BatchID:    b.ID,
			LineItemID: item.ID,
			Quantity:   take,
			Metadata:   entity.AutoMetadata(orderID),
			CreatedAt:  now,
		}
		if err := allocRepo.Create(ctx, alloc); err != nil {
			return err
		}
		// keep the local view current so the next lot in this pass sees it
		allocated[b.ID] += take
		remaining -= take
		changed = true
		res.Created = append(res.Created, alloc)
	}

	if changed {
		res.VariantIDs = appendUnique(res.VariantIDs, item.VariantID)
	}
	if remaining > 0 {
		e.log.Warn().
			Str("order_id", orderID).
			Str("line_item_id", item.ID).
			Str("variant_id", item.VariantID).
			Int64("missing", remaining).
			Msg("insufficient lot quantity for line item")
		res.Shortfalls = append(res.Shortfalls, Shortfall{
			OrderID:    orderID,
			LineItemID: item.ID,
			VariantID:  item.VariantID,
			Missing:    remaining,
		})
	}
	return nil
}

func appendUnique(ids []string, id string) []string {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}
