package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch represents one physically received lot of a product variant, tagged with a
// human-readable lot number.
//
// Quantity is the total ever received for the lot, not a live remaining counter.
// The remaining (available-to-sell) amount is always derived as
// quantity minus the sum of the lot's allocations; it is never stored.
type Batch struct {
	ID                 string
	VariantID          string
	LotNumber          string // unique per variant
	Quantity           int64
	COAFileKey         *string
	ReceivedDate       *time.Time
	SupplierInvoiceURL *string
	LabInvoiceURL      *string
	SupplierCost       *decimal.Decimal // per-unit supplier cost; nil = unknown
	TestingCost        *decimal.Decimal // total lab-testing cost for the whole lot; nil = unknown
	Metadata           map[string]any
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
