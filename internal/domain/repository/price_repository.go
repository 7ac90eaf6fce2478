package repository

import (
	"context"

	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
)

// PriceRepository is the port to the storefront's pricing store.
type PriceRepository interface {
	GetPriceListByName(ctx context.Context, name string) (*entity.PriceList, error)
	CreatePriceList(ctx context.Context, list *entity.PriceList) error
	GetPriceSetByVariant(ctx context.Context, variantID string) (*entity.VariantPriceSet, error)
	GetPrice(ctx context.Context, priceListID, priceSetID, currency string) (*entity.Price, error)
	CreatePrice(ctx context.Context, price *entity.Price) error
	UpdatePriceAmount(ctx context.Context, id string, amountMinor int64) error
	// GetBasePriceMinor returns the base calculated price for a price set in the
	// given currency, or nil when the store has none.
	GetBasePriceMinor(ctx context.Context, priceSetID, currency string) (*int64, error)
}
