// Package batch holds the admin use cases for lot records: CRUD over batches,
// manual allocations, and derived availability views. Every mutation triggers a
// best-effort resync of the external stores for the affected variants.
package batch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/avelar-dev/lotstock-api/internal/application/allocation"
	"github.com/avelar-dev/lotstock-api/internal/domain"
	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
	"github.com/avelar-dev/lotstock-api/internal/domain/lot"
	"github.com/avelar-dev/lotstock-api/internal/domain/repository"
	"github.com/avelar-dev/lotstock-api/pkg/logger"
)

// Syncer pushes recomputed state for a set of variants into an external store.
type Syncer interface {
	SyncVariants(ctx context.Context, variantIDs []string) error
}

// UseCase is the admin surface over lots and their allocations.
type UseCase struct {
	batches   repository.BatchRepository
	allocs    repository.AllocationRepository
	tx        allocation.TxRunner
	invSync   Syncer
	priceSync Syncer
	log       *logger.Logger
}

// NewUseCase builds the use case. Either syncer may be nil (disabled).
func NewUseCase(
	batches repository.BatchRepository,
	allocs repository.AllocationRepository,
	tx allocation.TxRunner,
	invSync Syncer,
	priceSync Syncer,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		batches:   batches,
		allocs:    allocs,
		tx:        tx,
		invSync:   invSync,
		priceSync: priceSync,
		log:       log,
	}
}

// CreateBatch records a newly received lot. Quantity is the total received, not a
// running balance. Lot numbers are unique per variant; a repeat create surfaces
// domain.ErrDuplicate.
func (u *UseCase) CreateBatch(ctx context.Context, b *entity.Batch) error {
	if b.VariantID == "" || b.LotNumber == "" || b.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	if err := u.batches.Create(ctx, b); err != nil {
		return err
	}
	u.log.Info().
		Str("batch_id", b.ID).
		Str("variant_id", b.VariantID).
		Str("lot_number", b.LotNumber).
		Int64("quantity", b.Quantity).
		Msg("batch created")
	u.syncExternal(ctx, []string{b.VariantID}, true)
	return nil
}

// UpdateBatch applies the caller's fields to an existing lot. Shrinking quantity
// below what is already allocated is allowed; availability clamps at zero and the
// next receipt works it off.
func (u *UseCase) UpdateBatch(ctx context.Context, b *entity.Batch) error {
	if b.Quantity < 0 {
		return domain.ErrInvalidInput
	}
	existing, err := u.batches.GetByID(ctx, b.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	b.VariantID = existing.VariantID
	b.CreatedAt = existing.CreatedAt
	b.UpdatedAt = time.Now()
	if err := u.batches.Update(ctx, b); err != nil {
		return err
	}
	u.syncExternal(ctx, []string{b.VariantID}, true)
	return nil
}

// DeleteBatch removes a lot and, via the store's cascade, its allocations.
func (u *UseCase) DeleteBatch(ctx context.Context, id string) error {
	existing, err := u.batches.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	if err := u.batches.Delete(ctx, id); err != nil {
		return err
	}
	u.log.Info().
		Str("batch_id", id).
		Str("variant_id", existing.VariantID).
		Msg("batch deleted")
	u.syncExternal(ctx, []string{existing.VariantID}, true)
	return nil
}

// GetBatch returns one lot with its derived availability.
func (u *UseCase) GetBatch(ctx context.Context, id string) (*lot.BatchAvailability, error) {
	b, err := u.batches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	allocs, err := u.allocs.ListByBatchIDs(ctx, []string{b.ID})
	if err != nil {
		return nil, err
	}
	av := lot.AvailabilityByBatch([]*entity.Batch{b}, allocs)
	return &av[0], nil
}

// ListBatches pages through all lots with derived availability. Exhausted lots
// are included.
func (u *UseCase) ListBatches(ctx context.Context, limit, offset int) ([]lot.BatchAvailability, error) {
	batches, err := u.batches.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return u.withAvailability(ctx, batches)
}

// ListBatchesByVariant returns a variant's lots with derived availability,
// oldest first.
func (u *UseCase) ListBatchesByVariant(ctx context.Context, variantID string) ([]lot.BatchAvailability, error) {
	batches, err := u.batches.ListByVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}
	return u.withAvailability(ctx, lot.SortFIFO(batches))
}

// VariantAvailability derives the variant's total sellable quantity.
func (u *UseCase) VariantAvailability(ctx context.Context, variantID string) (int64, error) {
	batches, err := u.batches.ListByVariant(ctx, variantID)
	if err != nil {
		return 0, err
	}
	batchIDs := make([]string, 0, len(batches))
	for _, b := range batches {
		batchIDs = append(batchIDs, b.ID)
	}
	allocs, err := u.allocs.ListByBatchIDs(ctx, batchIDs)
	if err != nil {
		return 0, err
	}
	return lot.VariantAvailable(batches, allocs), nil
}

// VariantValuation derives the variant's weighted-average unit cost.
func (u *UseCase) VariantValuation(ctx context.Context, variantID string) (lot.Valuation, error) {
	batches, err := u.batches.ListByVariant(ctx, variantID)
	if err != nil {
		return lot.Valuation{}, err
	}
	return lot.WeightedUnitCost(batches), nil
}

// CreateAllocation pins quantity from a specific lot to a line item by hand. The
// check and insert run under the variant's batch row locks, so a concurrent
// automatic pass cannot overallocate the same lot.
func (u *UseCase) CreateAllocation(ctx context.Context, batchID, lineItemID string, quantity int64) (*entity.Allocation, error) {
	if batchID == "" || lineItemID == "" || quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	b, err := u.batches.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}

	alloc := &entity.Allocation{
		ID:         uuid.New().String(),
		BatchID:    batchID,
		LineItemID: lineItemID,
		Quantity:   quantity,
		CreatedAt:  time.Now(),
	}
	err = u.tx.Run(ctx, func(batchRepo repository.BatchRepository, allocRepo repository.AllocationRepository) error {
		locked, err := batchRepo.ListByVariantForUpdate(ctx, b.VariantID)
		if err != nil {
			return err
		}
		allocs, err := allocRepo.ListByBatchIDs(ctx, []string{batchID})
		if err != nil {
			return err
		}
		allocated := lot.AllocatedByBatch(allocs)
		for _, lb := range locked {
			if lb.ID != batchID {
				continue
			}
			if lot.Available(lb, allocated[lb.ID]) < quantity {
				return domain.ErrInsufficientStock
			}
			return allocRepo.Create(ctx, alloc)
		}
		return domain.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	u.syncExternal(ctx, []string{b.VariantID}, false)
	return alloc, nil
}

// DeleteAllocation frees a lot's quantity back to availability.
func (u *UseCase) DeleteAllocation(ctx context.Context, id string) error {
	a, err := u.allocs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a == nil {
		return domain.ErrNotFound
	}
	if err := u.allocs.Delete(ctx, id); err != nil {
		return err
	}
	b, err := u.batches.GetByID(ctx, a.BatchID)
	if err != nil || b == nil {
		return err
	}
	u.syncExternal(ctx, []string{b.VariantID}, false)
	return nil
}

// ListAllocationsByBatch returns a lot's allocations.
func (u *UseCase) ListAllocationsByBatch(ctx context.Context, batchID string) ([]*entity.Allocation, error) {
	b, err := u.batches.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	return u.allocs.ListByBatchIDs(ctx, []string{batchID})
}

func (u *UseCase) withAvailability(ctx context.Context, batches []*entity.Batch) ([]lot.BatchAvailability, error) {
	batchIDs := make([]string, 0, len(batches))
	for _, b := range batches {
		batchIDs = append(batchIDs, b.ID)
	}
	allocs, err := u.allocs.ListByBatchIDs(ctx, batchIDs)
	if err != nil {
		return nil, err
	}
	return lot.AvailabilityByBatch(batches, allocs), nil
}

// syncExternal resyncs the external stores for the given variants. Failures are
// logged, never returned: the local mutation already committed and the next sync
// converges.
func (u *UseCase) syncExternal(ctx context.Context, variantIDs []string, pricing bool) {
	if u.invSync != nil {
		if err := u.invSync.SyncVariants(ctx, variantIDs); err != nil {
			u.log.Error().Err(err).Strs("variant_ids", variantIDs).Msg("inventory sync failed")
		}
	}
	if pricing && u.priceSync != nil {
		if err := u.priceSync.SyncVariants(ctx, variantIDs); err != nil {
			u.log.Error().Err(err).Strs("variant_ids", variantIDs).Msg("pricing sync failed")
		}
	}
}
