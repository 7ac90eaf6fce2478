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

var _ repository.PriceRepository = (*PriceRepo)(nil)

// PriceRepo implements the PriceRepository port over the storefront's pricing
// tables.
type PriceRepo struct {
	q Querier
}

// NewPriceRepository builds the adapter for the pricing store.
func NewPriceRepository(q Querier) *PriceRepo {
	return &PriceRepo{q: q}
}

// GetPriceListByName fetches a price list by its name, nil when absent.
func (r *PriceRepo) GetPriceListByName(ctx context.Context, name string) (*entity.PriceList, error) {
	var list entity.PriceList
	err := r.q.QueryRow(ctx, `
		SELECT id, name, COALESCE(customer_group_id, ''), created_at
		FROM price_lists WHERE name = $1`, name).
		Scan(&list.ID, &list.Name, &list.CustomerGroupID, &list.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get price list: %w", err)
	}
	return &list, nil
}

// CreatePriceList inserts a price list; a name collision surfaces as
// domain.ErrDuplicate so a provisioning race can be resolved by re-reading.
func (r *PriceRepo) CreatePriceList(ctx context.Context, list *entity.PriceList) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO price_lists (id, name, customer_group_id, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4)`,
		list.ID, list.Name, list.CustomerGroupID, list.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert price list: %w", err)
	}
	return nil
}

// GetPriceSetByVariant fetches a variant's price-set link, nil when the variant
// is not priced.
func (r *PriceRepo) GetPriceSetByVariant(ctx context.Context, variantID string) (*entity.VariantPriceSet, error) {
	var ps entity.VariantPriceSet
	err := r.q.QueryRow(ctx, `
		SELECT variant_id, price_set_id FROM variant_price_sets WHERE variant_id = $1`, variantID).
		Scan(&ps.VariantID, &ps.PriceSetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variant price set: %w", err)
	}
	return &ps, nil
}

// GetPrice fetches one override price entry, nil when absent.
func (r *PriceRepo) GetPrice(ctx context.Context, priceListID, priceSetID, currency string) (*entity.Price, error) {
	var p entity.Price
	err := r.q.QueryRow(ctx, `
		SELECT id, price_list_id, price_set_id, currency_code, amount, created_at, updated_at
		FROM prices WHERE price_list_id = $1 AND price_set_id = $2 AND currency_code = $3`,
		priceListID, priceSetID, currency).
		Scan(&p.ID, &p.PriceListID, &p.PriceSetID, &p.Currency, &p.AmountMinor, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get price: %w", err)
	}
	return &p, nil
}

// CreatePrice inserts one override price entry.
func (r *PriceRepo) CreatePrice(ctx context.Context, price *entity.Price) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO prices (id, price_list_id, price_set_id, currency_code, amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		price.ID, price.PriceListID, price.PriceSetID, price.Currency,
		price.AmountMinor, price.CreatedAt, price.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert price: %w", err)
	}
	return nil
}

// UpdatePriceAmount rewrites one entry's amount.
func (r *PriceRepo) UpdatePriceAmount(ctx context.Context, id string, amountMinor int64) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE prices SET amount = $2, updated_at = now() WHERE id = $1`, id, amountMinor)
	if err != nil {
		return fmt.Errorf("update price: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetBasePriceMinor returns the base calculated price of a price set (the entry
// outside any price list), nil when the store has none.
func (r *PriceRepo) GetBasePriceMinor(ctx context.Context, priceSetID, currency string) (*int64, error) {
	var amount int64
	err := r.q.QueryRow(ctx, `
		SELECT amount FROM prices
		WHERE price_set_id = $1 AND currency_code = $2 AND price_list_id IS NULL`,
		priceSetID, currency).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get base price: %w", err)
	}
	return &amount, nil
}
