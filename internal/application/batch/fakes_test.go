package batch_test

import (
	"context"
	"sort"

	"github.com/avelar-dev/lotstock-api/internal/application/allocation"
	"github.com/avelar-dev/lotstock-api/internal/domain"
	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
	"github.com/avelar-dev/lotstock-api/internal/domain/repository"
)

type memBatchRepo struct {
	batches map[string]*entity.Batch
}

func newMemBatchRepo() *memBatchRepo {
	return &memBatchRepo{batches: map[string]*entity.Batch{}}
}

func (r *memBatchRepo) Create(_ context.Context, b *entity.Batch) error {
	for _, ex := range r.batches {
		if ex.VariantID == b.VariantID && ex.LotNumber == b.LotNumber {
			return domain.ErrDuplicate
		}
	}
	r.batches[b.ID] = b
	return nil
}

func (r *memBatchRepo) Update(_ context.Context, b *entity.Batch) error {
	r.batches[b.ID] = b
	return nil
}

func (r *memBatchRepo) Delete(_ context.Context, id string) error {
	delete(r.batches, id)
	return nil
}

func (r *memBatchRepo) GetByID(_ context.Context, id string) (*entity.Batch, error) {
	return r.batches[id], nil
}

func (r *memBatchRepo) GetByLotNumber(_ context.Context, variantID, lotNumber string) (*entity.Batch, error) {
	for _, b := range r.batches {
		if b.VariantID == variantID && b.LotNumber == lotNumber {
			return b, nil
		}
	}
	return nil, nil
}

func (r *memBatchRepo) ListByVariant(_ context.Context, variantID string) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.batches {
		if b.VariantID == variantID {
			out = append(out, b)
		}
	}
	sortBatches(out)
	return out, nil
}

func (r *memBatchRepo) ListByVariantForUpdate(ctx context.Context, variantID string) ([]*entity.Batch, error) {
	return r.ListByVariant(ctx, variantID)
}

func (r *memBatchRepo) ListByIDs(_ context.Context, ids []string) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, id := range ids {
		if b, ok := r.batches[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBatchRepo) List(_ context.Context, limit, offset int) ([]*entity.Batch, error) {
	all, _ := r.ListAll(context.Background())
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *memBatchRepo) ListAll(_ context.Context) ([]*entity.Batch, error) {
	out := make([]*entity.Batch, 0, len(r.batches))
	for _, b := range r.batches {
		out = append(out, b)
	}
	sortBatches(out)
	return out, nil
}

func sortBatches(batches []*entity.Batch) {
	sort.Slice(batches, func(i, j int) bool {
		if batches[i].CreatedAt.Equal(batches[j].CreatedAt) {
			return batches[i].ID < batches[j].ID
		}
		return batches[i].CreatedAt.Before(batches[j].CreatedAt)
	})
}

type memAllocRepo struct {
	allocs map[string]*entity.Allocation
}

func newMemAllocRepo() *memAllocRepo {
	return &memAllocRepo{allocs: map[string]*entity.Allocation{}}
}

func (r *memAllocRepo) Create(_ context.Context, a *entity.Allocation) error {
	r.allocs[a.ID] = a
	return nil
}

func (r *memAllocRepo) Delete(_ context.Context, id string) error {
	delete(r.allocs, id)
	return nil
}

func (r *memAllocRepo) GetByID(_ context.Context, id string) (*entity.Allocation, error) {
	return r.allocs[id], nil
}

func (r *memAllocRepo) ListByLineItem(_ context.Context, lineItemID string) ([]*entity.Allocation, error) {
	var out []*entity.Allocation
	for _, a := range r.allocs {
		if a.LineItemID == lineItemID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAllocRepo) ListByBatchIDs(_ context.Context, batchIDs []string) ([]*entity.Allocation, error) {
	ids := map[string]bool{}
	for _, id := range batchIDs {
		ids[id] = true
	}
	var out []*entity.Allocation
	for _, a := range r.allocs {
		if ids[a.BatchID] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAllocRepo) DeleteByLineItem(_ context.Context, lineItemID string) ([]*entity.Allocation, error) {
	var deleted []*entity.Allocation
	for id, a := range r.allocs {
		if a.LineItemID == lineItemID {
			deleted = append(deleted, a)
			delete(r.allocs, id)
		}
	}
	return deleted, nil
}

func (r *memAllocRepo) DeleteByOrder(_ context.Context, orderID string) ([]*entity.Allocation, error) {
	var deleted []*entity.Allocation
	for id, a := range r.allocs {
		if a.Metadata != nil && a.Metadata[entity.AllocationMetaOrderID] == orderID {
			deleted = append(deleted, a)
			delete(r.allocs, id)
		}
	}
	return deleted, nil
}

type fakeTxRunner struct {
	batchRepo repository.BatchRepository
	allocRepo repository.AllocationRepository
}

var _ allocation.TxRunner = (*fakeTxRunner)(nil)

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	batchRepo repository.BatchRepository,
	allocRepo repository.AllocationRepository,
) error) error {
	return fn(r.batchRepo, r.allocRepo)
}

// recordingSyncer captures every SyncVariants call.
type recordingSyncer struct {
	calls [][]string
	err   error
}

func (s *recordingSyncer) SyncVariants(_ context.Context, variantIDs []string) error {
	s.calls = append(s.calls, variantIDs)
	return s.err
}
