package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
	"github.com/avelar-dev/lotstock-api/internal/domain/lot"
)

// CreateBatchRequest input to record a newly received lot.
type CreateBatchRequest struct {
	VariantID          string           `json:"variant_id" validate:"required"`
	LotNumber          string           `json:"lot_number" validate:"required,max=100"`
	Quantity           int64            `json:"quantity" validate:"required,gt=0"`
	COAFileKey         *string          `json:"coa_file_key,omitempty"`
	ReceivedDate       *time.Time       `json:"received_date,omitempty"`
	SupplierInvoiceURL *string          `json:"supplier_invoice_url,omitempty"`
	LabInvoiceURL      *string          `json:"lab_invoice_url,omitempty"`
	SupplierCost       *decimal.Decimal `json:"supplier_cost,omitempty"`
	TestingCost        *decimal.Decimal `json:"testing_cost,omitempty"`
	Metadata           map[string]any   `json:"metadata,omitempty"`
}

// UpdateBatchRequest input to correct an existing lot. Variant cannot change.
type UpdateBatchRequest struct {
	LotNumber          string           `json:"lot_number" validate:"required,max=100"`
	Quantity           int64            `json:"quantity" validate:"min=0"`
	COAFileKey         *string          `json:"coa_file_key,omitempty"`
	ReceivedDate       *time.Time       `json:"received_date,omitempty"`
	SupplierInvoiceURL *string          `json:"supplier_invoice_url,omitempty"`
	LabInvoiceURL      *string          `json:"lab_invoice_url,omitempty"`
	SupplierCost       *decimal.Decimal `json:"supplier_cost,omitempty"`
	TestingCost        *decimal.Decimal `json:"testing_cost,omitempty"`
	Metadata           map[string]any   `json:"metadata,omitempty"`
}

// BatchResponse a lot with its derived availability.
type BatchResponse struct {
	ID                 string           `json:"id"`
	VariantID          string           `json:"variant_id"`
	LotNumber          string           `json:"lot_number"`
	Quantity           int64            `json:"quantity"`
	Available          int64            `json:"available"`
	COAFileKey         *string          `json:"coa_file_key,omitempty"`
	ReceivedDate       *time.Time       `json:"received_date,omitempty"`
	SupplierInvoiceURL *string          `json:"supplier_invoice_url,omitempty"`
	LabInvoiceURL      *string          `json:"lab_invoice_url,omitempty"`
	SupplierCost       *decimal.Decimal `json:"supplier_cost,omitempty"`
	TestingCost        *decimal.Decimal `json:"testing_cost,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// BatchListResponse paged lot listing.
type BatchListResponse struct {
	Items []BatchResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// AvailabilityResponse a variant's total sellable quantity.
type AvailabilityResponse struct {
	VariantID string `json:"variant_id"`
	Available int64  `json:"available"`
}

// ValuationResponse a variant's weighted-average unit cost. UnitCost is absent
// when no stock carries cost data.
type ValuationResponse struct {
	VariantID string           `json:"variant_id"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	Defined   bool             `json:"defined"`
}

// CreateAllocationRequest input to pin lot quantity to a line item by hand.
type CreateAllocationRequest struct {
	LineItemID string `json:"line_item_id" validate:"required"`
	Quantity   int64  `json:"quantity" validate:"required,gt=0"`
}

// AllocationResponse one allocation row.
type AllocationResponse struct {
	ID         string         `json:"id"`
	BatchID    string         `json:"batch_id"`
	LineItemID string         `json:"line_item_id"`
	Quantity   int64          `json:"quantity"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ToBatchResponse maps a lot plus availability to its response shape.
func ToBatchResponse(av lot.BatchAvailability) BatchResponse {
	b := av.Batch
	return BatchResponse{
		ID:                 b.ID,
		VariantID:          b.VariantID,
		LotNumber:          b.LotNumber,
		Quantity:           b.Quantity,
		Available:          av.Available,
		COAFileKey:         b.COAFileKey,
		ReceivedDate:       b.ReceivedDate,
		SupplierInvoiceURL: b.SupplierInvoiceURL,
		LabInvoiceURL:      b.LabInvoiceURL,
		SupplierCost:       b.SupplierCost,
		TestingCost:        b.TestingCost,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// ToAllocationResponse maps an allocation to its response shape.
func ToAllocationResponse(a *entity.Allocation) AllocationResponse {
	return AllocationResponse{
		ID:         a.ID,
		BatchID:    a.BatchID,
		LineItemID: a.LineItemID,
		Quantity:   a.Quantity,
		Metadata:   a.Metadata,
		CreatedAt:  a.CreatedAt,
	}
}
