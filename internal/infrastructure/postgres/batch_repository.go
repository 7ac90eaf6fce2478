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

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, variant_id, lot_number, quantity, coa_file_key, received_date,
	supplier_invoice_url, lab_invoice_url, supplier_cost, testing_cost, metadata, created_at, updated_at`

// BatchRepo implements the BatchRepository port over PostgreSQL (pool or tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository builds the persistence adapter for lots.
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create persists a new lot. The (variant_id, lot_number) unique index surfaces
// repeats as domain.ErrDuplicate.
func (r *BatchRepo) Create(ctx context.Context, b *entity.Batch) error {
	query := `
		INSERT INTO batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.VariantID, b.LotNumber, b.Quantity, b.COAFileKey, b.ReceivedDate,
		b.SupplierInvoiceURL, b.LabInvoiceURL, b.SupplierCost, b.TestingCost,
		b.Metadata, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// Update rewrites a lot's mutable fields. Variant and creation time never change.
func (r *BatchRepo) Update(ctx context.Context, b *entity.Batch) error {
	query := `
		UPDATE batches
		SET lot_number = $2, quantity = $3, coa_file_key = $4, received_date = $5,
			supplier_invoice_url = $6, lab_invoice_url = $7, supplier_cost = $8,
			testing_cost = $9, metadata = $10, updated_at = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		b.ID, b.LotNumber, b.Quantity, b.COAFileKey, b.ReceivedDate,
		b.SupplierInvoiceURL, b.LabInvoiceURL, b.SupplierCost, b.TestingCost,
		b.Metadata, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update batch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a lot; allocations go with it via ON DELETE CASCADE.
func (r *BatchRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID fetches one lot, nil when absent.
func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`
	b, err := scanBatch(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// GetByLotNumber fetches a variant's lot by its human-readable number.
func (r *BatchRepo) GetByLotNumber(ctx context.Context, variantID, lotNumber string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE variant_id = $1 AND lot_number = $2`
	b, err := scanBatch(r.q.QueryRow(ctx, query, variantID, lotNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch by lot number: %w", err)
	}
	return b, nil
}

// ListByVariant returns a variant's lots, oldest first.
func (r *BatchRepo) ListByVariant(ctx context.Context, variantID string) ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches
		WHERE variant_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, variantID)
	if err != nil {
		return nil, fmt.Errorf("list batches by variant: %w", err)
	}
	return scanBatches(rows)
}

// ListByVariantForUpdate locks the variant's lot rows for the current
// transaction, so concurrent allocation passes over the variant serialize.
func (r *BatchRepo) ListByVariantForUpdate(ctx context.Context, variantID string) ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches
		WHERE variant_id = $1 ORDER BY created_at, id FOR UPDATE`
	rows, err := r.q.Query(ctx, query, variantID)
	if err != nil {
		return nil, fmt.Errorf("lock batches by variant: %w", err)
	}
	return scanBatches(rows)
}

// ListByIDs fetches lots by id; missing ids are simply absent from the result.
func (r *BatchRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.Batch, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = ANY($1)`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list batches by ids: %w", err)
	}
	return scanBatches(rows)
}

// List pages through all lots, oldest first.
func (r *BatchRepo) List(ctx context.Context, limit, offset int) ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches
		ORDER BY created_at, id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return scanBatches(rows)
}

// ListAll returns every lot, oldest first.
func (r *BatchRepo) ListAll(ctx context.Context) ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all batches: %w", err)
	}
	return scanBatches(rows)
}

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	err := row.Scan(
		&b.ID, &b.VariantID, &b.LotNumber, &b.Quantity, &b.COAFileKey, &b.ReceivedDate,
		&b.SupplierInvoiceURL, &b.LabInvoiceURL, &b.SupplierCost, &b.TestingCost,
		&b.Metadata, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBatches(rows pgx.Rows) ([]*entity.Batch, error) {
	defer rows.Close()
	var out []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batches: %w", err)
	}
	return out, nil
}
