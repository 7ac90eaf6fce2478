package repository

import (
	"context"

	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
)

// AllocationRepository is the port for allocation records. Delete operations
// return the deleted rows so callers can recompute availability for the batches
// that were freed.
type AllocationRepository interface {
	Create(ctx context.Context, alloc *entity.Allocation) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.Allocation, error)
	ListByLineItem(ctx context.Context, lineItemID string) ([]*entity.Allocation, error)
	ListByBatchIDs(ctx context.Context, batchIDs []string) ([]*entity.Allocation, error)
	DeleteByLineItem(ctx context.Context, lineItemID string) ([]*entity.Allocation, error)
	// DeleteByOrder removes allocations by metadata order id. This is the fallback
	// link used when the order record itself is no longer retrievable.
	DeleteByOrder(ctx context.Context, orderID string) ([]*entity.Allocation, error)
}
