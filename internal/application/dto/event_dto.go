package dto

// OrderEventRequest payload of a storefront order event webhook.
type OrderEventRequest struct {
	OrderID string `json:"order_id" validate:"required"`
}

// ShortfallResponse demand a line item could not cover from any lot.
type ShortfallResponse struct {
	OrderID    string `json:"order_id"`
	LineItemID string `json:"line_item_id"`
	VariantID  string `json:"variant_id"`
	Missing    int64  `json:"missing"`
}

// AllocateResultResponse outcome of one allocation pass.
type AllocateResultResponse struct {
	Created    []AllocationResponse `json:"created"`
	Shortfalls []ShortfallResponse  `json:"shortfalls"`
}

// ReleaseResultResponse outcome of a release pass.
type ReleaseResultResponse struct {
	Released int `json:"released"`
}
