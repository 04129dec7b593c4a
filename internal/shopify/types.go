// internal/shopify/types.go
package shopify

// Variant is a purchasable configuration of a product. Option1..3 hold the
// option values (size, color, ...) that make up the variant's composite label.
type Variant struct {
	ID                int64  `json:"id"`
	ProductID         int64  `json:"product_id"`
	Title             string `json:"title"`
	Price             string `json:"price"`
	SKU               string `json:"sku,omitempty"`
	Option1           string `json:"option1,omitempty"`
	Option2           string `json:"option2,omitempty"`
	Option3           string `json:"option3,omitempty"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

type Product struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Variants []Variant `json:"variants"`
}

// DraftOrderLineItem is the minimal projection forwarded to order creation.
// Price and title are informational only and never sent here.
type DraftOrderLineItem struct {
	VariantID int64 `json:"variant_id"`
	Quantity  int   `json:"quantity"`
}

type DraftOrderCustomer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

type DraftOrderAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address1  string `json:"address1"`
	City      string `json:"city"`
	Province  string `json:"province"`
	Country   string `json:"country"`
	Zip       string `json:"zip"`
	Phone     string `json:"phone,omitempty"`
}

// DraftOrderInput is the payload for draft-order creation.
type DraftOrderInput struct {
	LineItems       []DraftOrderLineItem `json:"line_items"`
	Customer        DraftOrderCustomer   `json:"customer"`
	Email           string               `json:"email"`
	BillingAddress  DraftOrderAddress    `json:"billing_address"`
	ShippingAddress DraftOrderAddress    `json:"shipping_address"`
	Note            string               `json:"note,omitempty"`
	Tags            string               `json:"tags,omitempty"`
}

// DraftOrder is the unconfirmed, payable order returned by the platform.
// Name is the customer-facing order number (e.g. "#D42").
type DraftOrder struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Status        string `json:"status"`
	InvoiceURL    string `json:"invoice_url,omitempty"`
	TotalPrice    string `json:"total_price,omitempty"`
	InvoiceSentAt string `json:"invoice_sent_at,omitempty"`
}
