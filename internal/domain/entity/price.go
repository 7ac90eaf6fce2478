package entity

import "time"

// PriceList is an override price list in the external pricing store, restricted to
// one customer group.
type PriceList struct {
	ID              string
	Name            string
	CustomerGroupID string
	CreatedAt       time.Time
}

// Price is one override price entry, keyed by price set and currency. Amounts are
// in minor currency units (cents).
type Price struct {
	ID          string
	PriceListID string
	PriceSetID  string
	Currency    string
	AmountMinor int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// VariantPriceSet links a variant to its price set in the pricing store. Variants
// without a link are never priced by the sync.
type VariantPriceSet struct {
	VariantID  string
	PriceSetID string
}
