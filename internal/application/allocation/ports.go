package allocation

import (
	"context"

	"github.com/avelar-dev/lotstock-api/internal/domain/repository"
)

// TxRunner runs fn inside one storage transaction, passing repositories bound to
// that transaction. An allocation pass reads the variant's batches with a row lock
// and writes its allocations in the same transaction, so two concurrent passes
// over the same variant serialize instead of both consuming the same availability
// snapshot.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		allocRepo repository.AllocationRepository,
	) error) error
}
