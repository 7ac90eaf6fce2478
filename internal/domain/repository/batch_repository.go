package repository

import (
	"context"

	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
)

// BatchRepository is the port for lot (batch) records.
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.Batch) error
	Update(ctx context.Context, batch *entity.Batch) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.Batch, error)
	GetByLotNumber(ctx context.Context, variantID, lotNumber string) (*entity.Batch, error)
	ListByVariant(ctx context.Context, variantID string) ([]*entity.Batch, error)
	// ListByVariantForUpdate locks the variant's batch rows (SELECT FOR UPDATE)
	// so concurrent allocation passes over the same variant serialize.
	ListByVariantForUpdate(ctx context.Context, variantID string) ([]*entity.Batch, error)
	ListByIDs(ctx context.Context, ids []string) ([]*entity.Batch, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Batch, error)
	ListAll(ctx context.Context) ([]*entity.Batch, error)
}
