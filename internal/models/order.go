// internal/models/order.go
package models

// LineItem is a (variant, quantity) pair requested by a caller. Quantity is
// expected to be a positive integer; handlers reject anything else before a
// LineItem is constructed.
type LineItem struct {
	VariantID int64 `json:"variant_id"`
	Quantity  int   `json:"quantity"`
}

// InventoryResult is the per-line-item outcome of an availability check.
// Available is true iff AvailableQuantity >= RequestedQuantity. A failed
// lookup yields AvailableQuantity 0 and Available false.
type InventoryResult struct {
	VariantID         int64  `json:"variant_id"`
	Title             string `json:"title"`
	RequestedQuantity int    `json:"requested_quantity"`
	AvailableQuantity int    `json:"available_quantity"`
	Available         bool   `json:"available"`
}

// VariantCandidate is one ranked hit from fuzzy variant matching.
// MatchScore is in [0,100]; candidates are sorted descending by score.
type VariantCandidate struct {
	ProductTitle      string   `json:"product_title"`
	VariantID         int64    `json:"variant_id"`
	VariantTitle      string   `json:"variant_title"`
	OptionLabels      []string `json:"option_labels"`
	InventoryQuantity int      `json:"inventory_quantity"`
	Price             string   `json:"price"`
	MatchScore        float64  `json:"match_score"`
	DisplayName       string   `json:"display_name"`
}

// CustomerRecord is the normalized customer identity attached to an order.
// Email is mandatory; the remaining fields carry declared defaults.
type CustomerRecord struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// AddressRecord is a fully-resolved billing or shipping address. Every field
// is populated: explicit value, the sibling address's value, or a
// placeholder naming the missing field.
type AddressRecord struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address1  string `json:"address1"`
	City      string `json:"city"`
	Province  string `json:"province"`
	Country   string `json:"country"`
	Zip       string `json:"zip"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
}

// OrderRequest is the assembled, ready-to-send draft order. CallID is an
// opaque correlation token from the voice platform, passed through
// unvalidated.
type OrderRequest struct {
	Customer        CustomerRecord `json:"customer"`
	LineItems       []LineItem     `json:"line_items"`
	BillingAddress  AddressRecord  `json:"billing_address"`
	ShippingAddress AddressRecord  `json:"shipping_address"`
	Note            string         `json:"note"`
	CallID          string         `json:"call_id,omitempty"`
}
