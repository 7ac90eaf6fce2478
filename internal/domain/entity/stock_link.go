package entity

import "time"

// VariantStockLink maps a product variant to a stock-keeping record in the external
// inventory store. Several variants can share one inventory item (multipacks), each
// consuming RequiredQuantity units of it per unit sold.
type VariantStockLink struct {
	VariantID        string
	InventoryItemID  string
	RequiredQuantity int64
	Managed          bool // false = variant is not inventory-managed; never synced
}

// InventoryLevel is one location-level stock record in the external inventory store.
type InventoryLevel struct {
	InventoryItemID string
	LocationID      string
	StockedQuantity int64
	UpdatedAt       time.Time
}
