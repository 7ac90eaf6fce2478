package entity

import "time"

// Metadata keys carried on system-created allocations. OrderID duplicates the link
// that the order's line items already provide, so a release can still find the
// allocations after the order record is purged.
const (
	AllocationMetaAuto    = "auto"
	AllocationMetaOrderID = "order_id"
)

// Allocation commits N units from one batch to one order line item.
// Allocations are created and deleted, never updated in place.
type Allocation struct {
	ID         string
	BatchID    string
	LineItemID string
	Quantity   int64 // defaults to 1 when unspecified
	Metadata   map[string]any
	CreatedAt  time.Time
}

// AutoMetadata builds the metadata for an allocation created by the engine.
func AutoMetadata(orderID string) map[string]any {
	return map[string]any{
		AllocationMetaAuto:    true,
		AllocationMetaOrderID: orderID,
	}
}
