// Package errors provides the standardized error taxonomy for the order gateway.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Caller input errors (HTTP 400).
	ErrCodeMissingEmail    ErrorCode = "MISSING_EMAIL"
	ErrCodeEmptyLineItems  ErrorCode = "EMPTY_LINE_ITEMS"
	ErrCodeInvalidPayload  ErrorCode = "INVALID_PAYLOAD"
	ErrCodeMissingProduct  ErrorCode = "MISSING_PRODUCT"
	ErrCodeInvalidQuantity ErrorCode = "INVALID_QUANTITY"

	// Business-rule rejections (HTTP 200 with success=false).
	ErrCodeInsufficientInventory ErrorCode = "INSUFFICIENT_INVENTORY"
	ErrCodeNoMatchingVariants    ErrorCode = "NO_MATCHING_VARIANTS"

	// Upstream failures (HTTP 500).
	ErrCodeVariantLookupFailed     ErrorCode = "VARIANT_LOOKUP_FAILED"
	ErrCodeProductSearchFailed     ErrorCode = "PRODUCT_SEARCH_FAILED"
	ErrCodeDraftOrderCreateFailed  ErrorCode = "DRAFT_ORDER_CREATE_FAILED"
	ErrCodeCommerceAPIUnavailable  ErrorCode = "COMMERCE_API_UNAVAILABLE"

	// Non-critical failures, logged and absorbed.
	ErrCodeInvoiceSendFailed   ErrorCode = "INVOICE_SEND_FAILED"
	ErrCodeWebhookNotifyFailed ErrorCode = "WEBHOOK_NOTIFY_FAILED"
)

// StandardError is a structured application error. HTTPStatus drives the
// response shape in the handlers; Details carries upstream diagnostics that
// are logged but never exposed to the caller.
type StandardError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	HTTPStatus int       `json:"-"`
	Timestamp  time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewMissingEmailError flags an order request without a customer email.
func NewMissingEmailError() *StandardError {
	return &StandardError{
		Code:       ErrCodeMissingEmail,
		Message:    "Customer email is required",
		HTTPStatus: http.StatusBadRequest,
		Timestamp:  time.Now().UTC(),
	}
}

// NewEmptyLineItemsError flags a request with no line items.
func NewEmptyLineItemsError() *StandardError {
	return &StandardError{
		Code:       ErrCodeEmptyLineItems,
		Message:    "At least one line item is required",
		HTTPStatus: http.StatusBadRequest,
		Timestamp:  time.Now().UTC(),
	}
}

// NewInvalidPayloadError flags a body that failed decoding or schema validation.
func NewInvalidPayloadError(details string) *StandardError {
	return &StandardError{
		Code:       ErrCodeInvalidPayload,
		Message:    "Invalid request body",
		Details:    details,
		HTTPStatus: http.StatusBadRequest,
		Timestamp:  time.Now().UTC(),
	}
}

// NewMissingProductError flags an inventory check with neither a product
// name nor line items.
func NewMissingProductError() *StandardError {
	return &StandardError{
		Code:       ErrCodeMissingProduct,
		Message:    "Either product_name or line_items is required",
		HTTPStatus: http.StatusBadRequest,
		Timestamp:  time.Now().UTC(),
	}
}

// NewInvalidQuantityError flags a non-positive line item quantity.
func NewInvalidQuantityError(index int) *StandardError {
	return &StandardError{
		Code:       ErrCodeInvalidQuantity,
		Message:    "Line item quantity must be a positive integer",
		Details:    fmt.Sprintf("line_items[%d]", index),
		HTTPStatus: http.StatusBadRequest,
		Timestamp:  time.Now().UTC(),
	}
}

// NewCommerceAPIError wraps an upstream commerce-platform failure. The
// caller-facing message stays generic; the upstream detail lives in Details.
func NewCommerceAPIError(code ErrorCode, err error) *StandardError {
	return &StandardError{
		Code:       code,
		Message:    "We're sorry, something went wrong while processing your order. Please try again later.",
		Details:    err.Error(),
		HTTPStatus: http.StatusInternalServerError,
		Timestamp:  time.Now().UTC(),
	}
}

// NewInvoiceSendFailedError records a failed invoice email. Absorbed: it
// degrades the response but never aborts the created order.
func NewInvoiceSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvoiceSendFailed,
		Message:   "Invoice email could not be sent",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

// NewWebhookNotifyFailedError records a failed relay notification. Absorbed.
func NewWebhookNotifyFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeWebhookNotifyFailed,
		Message:   "Webhook notification failed",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}
