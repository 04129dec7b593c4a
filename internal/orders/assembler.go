// Package orders normalizes caller-supplied customer and address input into
// a fully-populated order request for draft-order creation.
package orders

import (
	"voice-order-gateway/internal/common/config"
	gwerrors "voice-order-gateway/internal/common/errors"
	"voice-order-gateway/internal/models"
)

// Placeholder strings for address fields that are absent from both addresses.
const (
	placeholderAddress1 = "Address not provided"
	placeholderCity     = "City not provided"
	placeholderProvince = "Province not provided"
	placeholderCountry  = "Country not provided"
	placeholderZip      = "ZIP not provided"
)

const (
	defaultFirstName = "Unknown"
	defaultLastName  = "Customer"
)

// CustomerInput mirrors the caller-supplied customer_info object.
type CustomerInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// AddressInput mirrors a caller-supplied billing_address/shipping_address
// object. A nil *AddressInput means the address was omitted entirely.
type AddressInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address1  string `json:"address1"`
	City      string `json:"city"`
	Province  string `json:"province"`
	Country   string `json:"country"`
	Zip       string `json:"zip"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// Input carries the raw place-order fields into assembly.
type Input struct {
	Customer            CustomerInput
	LineItems           []models.LineItem
	BillingAddress      *AddressInput
	ShippingAddress     *AddressInput
	SpecialInstructions string
	CallID              string
}

// Assembler applies the canonical normalization policy. When
// AddressFallback is off, missing address fields go straight to
// placeholders instead of borrowing from the sibling address.
type Assembler struct {
	addressFallback bool
	defaultNote     string
}

func NewAssembler(cfg config.OrdersConfig) *Assembler {
	return &Assembler{
		addressFallback: cfg.AddressFallback,
		defaultNote:     cfg.DefaultNote,
	}
}

// Assemble builds a complete OrderRequest. A missing customer email is a
// validation failure, never defaulted.
func (a *Assembler) Assemble(in Input) (*models.OrderRequest, error) {
	if in.Customer.Email == "" {
		return nil, gwerrors.NewMissingEmailError()
	}

	customer := models.CustomerRecord{
		FirstName: fallback(in.Customer.FirstName, defaultFirstName),
		LastName:  fallback(in.Customer.LastName, defaultLastName),
		Email:     in.Customer.Email,
		Phone:     in.Customer.Phone,
	}

	billing := a.resolveAddress(in.BillingAddress, in.ShippingAddress, customer)
	shipping := a.resolveAddress(in.ShippingAddress, in.BillingAddress, customer)

	// Only {variant_id, quantity} goes to order creation; price and title
	// are informational and sourced from the inventory check.
	items := make([]models.LineItem, len(in.LineItems))
	copy(items, in.LineItems)

	note := in.SpecialInstructions
	if note == "" {
		note = a.defaultNote
	}

	return &models.OrderRequest{
		Customer:        customer,
		LineItems:       items,
		BillingAddress:  billing,
		ShippingAddress: shipping,
		Note:            note,
		CallID:          in.CallID,
	}, nil
}

// resolveAddress fills each field by priority: explicit value, the sibling
// address's value (when cross-fallback is enabled), then a placeholder.
// Name and contact fields fall back to the customer record instead of a
// placeholder, since they would otherwise surface on the invoice.
func (a *Assembler) resolveAddress(primary, sibling *AddressInput, customer models.CustomerRecord) models.AddressRecord {
	if primary == nil {
		primary = &AddressInput{}
	}
	if sibling == nil || !a.addressFallback {
		sibling = &AddressInput{}
	}

	return models.AddressRecord{
		FirstName: fallback(primary.FirstName, sibling.FirstName, customer.FirstName),
		LastName:  fallback(primary.LastName, sibling.LastName, customer.LastName),
		Address1:  fallback(primary.Address1, sibling.Address1, placeholderAddress1),
		City:      fallback(primary.City, sibling.City, placeholderCity),
		Province:  fallback(primary.Province, sibling.Province, placeholderProvince),
		Country:   fallback(primary.Country, sibling.Country, placeholderCountry),
		Zip:       fallback(primary.Zip, sibling.Zip, placeholderZip),
		Phone:     fallback(primary.Phone, sibling.Phone, customer.Phone),
		Email:     fallback(primary.Email, sibling.Email, customer.Email),
	}
}

// fallback returns the first non-empty value.
func fallback(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
