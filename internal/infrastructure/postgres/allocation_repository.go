package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/avelar-dev/lotstock-api/internal/domain"
	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
	"github.com/avelar-dev/lotstock-api/internal/domain/repository"
)

var _ repository.AllocationRepository = (*AllocationRepo)(nil)

const allocationColumns = `id, batch_id, line_item_id, quantity, metadata, created_at`

// AllocationRepo implements the AllocationRepository port over PostgreSQL.
type AllocationRepo struct {
	q Querier
}

// NewAllocationRepository builds the persistence adapter for allocations.
func NewAllocationRepository(q Querier) *AllocationRepo {
	return &AllocationRepo{q: q}
}

// Create persists one allocation row.
func (r *AllocationRepo) Create(ctx context.Context, a *entity.Allocation) error {
	query := `
		INSERT INTO allocations (` + allocationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.BatchID, a.LineItemID, a.Quantity, a.Metadata, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert allocation: %w", err)
	}
	return nil
}

// Delete removes one allocation by id.
func (r *AllocationRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM allocations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete allocation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID fetches one allocation, nil when absent.
func (r *AllocationRepo) GetByID(ctx context.Context, id string) (*entity.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations WHERE id = $1`
	a, err := scanAllocation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get allocation: %w", err)
	}
	return a, nil
}

// ListByLineItem returns a line item's allocations.
func (r *AllocationRepo) ListByLineItem(ctx context.Context, lineItemID string) ([]*entity.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations
		WHERE line_item_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, lineItemID)
	if err != nil {
		return nil, fmt.Errorf("list allocations by line item: %w", err)
	}
	return scanAllocations(rows)
}

// ListByBatchIDs returns all allocations against the given lots.
func (r *AllocationRepo) ListByBatchIDs(ctx context.Context, batchIDs []string) ([]*entity.Allocation, error) {
	if len(batchIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + allocationColumns + ` FROM allocations WHERE batch_id = ANY($1)`
	rows, err := r.q.Query(ctx, query, batchIDs)
	if err != nil {
		return nil, fmt.Errorf("list allocations by batches: %w", err)
	}
	return scanAllocations(rows)
}

// DeleteByLineItem removes a line item's allocations, returning the deleted rows.
func (r *AllocationRepo) DeleteByLineItem(ctx context.Context, lineItemID string) ([]*entity.Allocation, error) {
	query := `DELETE FROM allocations WHERE line_item_id = $1 RETURNING ` + allocationColumns
	rows, err := r.q.Query(ctx, query, lineItemID)
	if err != nil {
		return nil, fmt.Errorf("delete allocations by line item: %w", err)
	}
	return scanAllocations(rows)
}

// DeleteByOrder removes allocations tagged with the order id in their metadata,
// returning the deleted rows. Fallback path for purged orders.
func (r *AllocationRepo) DeleteByOrder(ctx context.Context, orderID string) ([]*entity.Allocation, error) {
	query := `DELETE FROM allocations WHERE metadata->>'order_id' = $1 RETURNING ` + allocationColumns
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("delete allocations by order: %w", err)
	}
	return scanAllocations(rows)
}

func scanAllocation(row pgx.Row) (*entity.Allocation, error) {
	var a entity.Allocation
	err := row.Scan(&a.ID, &a.BatchID, &a.LineItemID, &a.Quantity, &a.Metadata, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanAllocations(rows pgx.Rows) ([]*entity.Allocation, error) {
	defer rows.Close()
	var out []*entity.Allocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate allocations: %w", err)
	}
	return out, nil
}
