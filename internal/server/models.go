// internal/server/models.go
package server

import (
	"voice-order-gateway/internal/models"
	"voice-order-gateway/internal/orders"
)

// CheckInventoryRequest accepts either concrete line items (stock check) or
// a spoken product name plus optional variant description (catalog search).
type CheckInventoryRequest struct {
	ProductName    string            `json:"product_name"`
	VariantDetails string            `json:"variant_details"`
	LineItems      []models.LineItem `json:"line_items"`
	CallID         string            `json:"call_id"`
}

type CheckInventoryResponse struct {
	Success      bool                      `json:"success"`
	Error        string                    `json:"error,omitempty"`
	Message      string                    `json:"message"`
	AllAvailable bool                      `json:"all_available,omitempty"`
	Items        []models.InventoryResult  `json:"items,omitempty"`
	Matches      []models.VariantCandidate `json:"matches,omitempty"`
	CallID       string                    `json:"call_id,omitempty"`
}

type PlaceOrderRequest struct {
	CustomerInfo        orders.CustomerInput  `json:"customer_info"`
	LineItems           []models.LineItem     `json:"line_items"`
	BillingAddress      *orders.AddressInput  `json:"billing_address"`
	ShippingAddress     *orders.AddressInput  `json:"shipping_address"`
	SpecialInstructions string                `json:"special_instructions"`
	CallID              string                `json:"call_id"`
}

type PlaceOrderResponse struct {
	Success          bool                     `json:"success"`
	Error            string                   `json:"error,omitempty"`
	Message          string                   `json:"message"`
	OrderID          int64                    `json:"order_id,omitempty"`
	OrderName        string                   `json:"order_name,omitempty"`
	ItemCount        int                      `json:"item_count,omitempty"`
	InvoiceSent      bool                     `json:"invoice_sent"`
	UnavailableItems []models.InventoryResult `json:"unavailable_items,omitempty"`
	CallID           string                   `json:"call_id,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}
