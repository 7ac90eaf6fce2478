package entity

// Order is a read model of the storefront's order system. This service only ever
// reads orders; it never creates or mutates them.
type Order struct {
	ID    string
	Items []OrderLineItem
}

// OrderLineItem is one purchasable line on an order. VariantID may be empty for
// lines that do not reference a tracked variant (fees, custom lines).
type OrderLineItem struct {
	ID        string
	VariantID string
	Quantity  int64
}
