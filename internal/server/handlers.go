package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	gwerrors "voice-order-gateway/internal/common/errors"
	"voice-order-gateway/internal/common/metrics"
	"voice-order-gateway/internal/common/validation"
	"voice-order-gateway/internal/matching"
	"voice-order-gateway/internal/models"
	"voice-order-gateway/internal/orders"
	"voice-order-gateway/internal/shopify"
	"voice-order-gateway/internal/webhook"
)

// handleCheckInventory reports availability for concrete line items, or
// searches the catalog and ranks variants against a spoken description.
// Every response is relayed to the automation webhook.
func (s *Server) handleCheckInventory(c *gin.Context) {
	raw, ok := s.decodeAndValidate(c, validation.CheckInventorySchema)
	if !ok {
		return
	}

	var req CheckInventoryRequest
	if err := remarshal(raw, &req); err != nil {
		s.badRequest(c, gwerrors.NewInvalidPayloadError(err.Error()))
		return
	}

	var resp CheckInventoryResponse
	switch {
	case len(req.LineItems) > 0:
		resp = s.checkLineItems(c.Request.Context(), req)
	case req.ProductName != "":
		resp = s.searchCatalog(c.Request.Context(), req)
	default:
		s.badRequest(c, gwerrors.NewMissingProductError())
		return
	}

	s.notifier.NotifyAsync(webhook.EventInventoryChecked, resp)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) checkLineItems(ctx context.Context, req CheckInventoryRequest) CheckInventoryResponse {
	results := s.validator.CheckAvailability(ctx, req.LineItems)

	shortfalls := unavailableOf(results)
	resp := CheckInventoryResponse{
		Success:      true,
		AllAvailable: len(shortfalls) == 0,
		Items:        results,
		CallID:       req.CallID,
	}
	if len(shortfalls) == 0 {
		resp.Message = fmt.Sprintf("All %d item(s) are available.", len(results))
	} else {
		resp.Message = "Some items are not available in the requested quantities: " + formatShortfalls(shortfalls)
	}
	return resp
}

func (s *Server) searchCatalog(ctx context.Context, req CheckInventoryRequest) CheckInventoryResponse {
	products, err := s.commerce.SearchProducts(ctx, req.ProductName, s.searchLimit)
	if err != nil {
		s.logger.WithError(err).Error("product search failed", map[string]interface{}{
			"productName": req.ProductName,
		})
		return CheckInventoryResponse{
			Success: false,
			Error:   "product_search_failed",
			Message: "We're sorry, we couldn't look that up right now. Please try again later.",
			CallID:  req.CallID,
		}
	}

	candidates := matching.RankVariants(products, req.VariantDetails)
	if len(candidates) == 0 {
		return CheckInventoryResponse{
			Success: false,
			Error:   "no_matching_variants",
			Message: fmt.Sprintf("No variants matching %q were found for %q.", req.VariantDetails, req.ProductName),
			CallID:  req.CallID,
		}
	}

	return CheckInventoryResponse{
		Success: true,
		Message: fmt.Sprintf("Found %d matching variant(s) for %q.", len(candidates), req.ProductName),
		Matches: candidates,
		CallID:  req.CallID,
	}
}

// handlePlaceOrder validates the request, checks inventory, assembles and
// creates the draft order, triggers the invoice email, and relays the
// outcome. Invoice and webhook failures degrade the response but never
// abort a created order.
func (s *Server) handlePlaceOrder(c *gin.Context) {
	raw, ok := s.decodeAndValidate(c, validation.PlaceOrderSchema)
	if !ok {
		return
	}

	var req PlaceOrderRequest
	if err := remarshal(raw, &req); err != nil {
		s.badRequest(c, gwerrors.NewInvalidPayloadError(err.Error()))
		return
	}

	if req.CustomerInfo.Email == "" {
		metrics.OrdersRejected.WithLabelValues("missing_email").Inc()
		s.badRequest(c, gwerrors.NewMissingEmailError())
		return
	}
	if len(req.LineItems) == 0 {
		metrics.OrdersRejected.WithLabelValues("empty_line_items").Inc()
		s.badRequest(c, gwerrors.NewEmptyLineItemsError())
		return
	}
	for i, item := range req.LineItems {
		if item.Quantity <= 0 {
			metrics.OrdersRejected.WithLabelValues("invalid_quantity").Inc()
			s.badRequest(c, gwerrors.NewInvalidQuantityError(i))
			return
		}
	}

	ctx := c.Request.Context()

	// Inventory check first; a shortfall is an expected conversational
	// outcome, not an HTTP error.
	results := s.validator.CheckAvailability(ctx, req.LineItems)
	if shortfalls := unavailableOf(results); len(shortfalls) > 0 {
		metrics.OrdersRejected.WithLabelValues("insufficient_inventory").Inc()
		resp := PlaceOrderResponse{
			Success:          false,
			Error:            "insufficient_inventory",
			Message:          "The following items are not available in the requested quantities: " + formatShortfalls(shortfalls),
			UnavailableItems: shortfalls,
			CallID:           req.CallID,
		}
		s.notifier.NotifyAsync(webhook.EventOrderFailed, resp)
		c.JSON(http.StatusOK, resp)
		return
	}

	orderReq, err := s.assembler.Assemble(orders.Input{
		Customer:            req.CustomerInfo,
		LineItems:           req.LineItems,
		BillingAddress:      req.BillingAddress,
		ShippingAddress:     req.ShippingAddress,
		SpecialInstructions: req.SpecialInstructions,
		CallID:              req.CallID,
	})
	if err != nil {
		if stdErr, ok := err.(*gwerrors.StandardError); ok {
			s.badRequest(c, stdErr)
			return
		}
		s.badRequest(c, gwerrors.NewInvalidPayloadError(err.Error()))
		return
	}

	draft, err := s.commerce.CreateDraftOrder(ctx, draftOrderInput(orderReq))
	if err != nil {
		stdErr := gwerrors.NewCommerceAPIError(gwerrors.ErrCodeDraftOrderCreateFailed, err)
		s.logger.WithError(stdErr).Error("draft order creation failed", map[string]interface{}{
			"callId": req.CallID,
		})
		resp := PlaceOrderResponse{
			Success: false,
			Error:   "order_creation_failed",
			Message: stdErr.Message,
			CallID:  req.CallID,
		}
		s.notifier.NotifyAsync(webhook.EventOrderFailed, resp)
		c.JSON(http.StatusInternalServerError, resp)
		return
	}
	metrics.OrdersCreated.Inc()

	invoiceSent := true
	if err := s.commerce.SendDraftOrderInvoice(ctx, draft.ID); err != nil {
		invoiceSent = false
		s.logger.WithError(gwerrors.NewInvoiceSendFailedError(err)).Warn("invoice send failed", map[string]interface{}{
			"draftOrderId": draft.ID,
		})
	}

	message := fmt.Sprintf("Your order %s has been created with %d item(s).", draft.Name, len(orderReq.LineItems))
	if invoiceSent {
		message += fmt.Sprintf(" An invoice has been emailed to %s.", orderReq.Customer.Email)
	} else {
		message += " We could not confirm the invoice email was sent."
	}

	resp := PlaceOrderResponse{
		Success:     true,
		Message:     message,
		OrderID:     draft.ID,
		OrderName:   draft.Name,
		ItemCount:   len(orderReq.LineItems),
		InvoiceSent: invoiceSent,
		CallID:      req.CallID,
	}
	s.notifier.NotifyAsync(webhook.EventDraftOrderCreated, resp)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": s.appName,
		"version": s.appVersion,
	})
}

// handleEcho logs an arbitrary JSON body and returns it unchanged.
func (s *Server) handleEcho(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		s.badRequest(c, gwerrors.NewInvalidPayloadError(err.Error()))
		return
	}

	s.logger.Info("echo request", map[string]interface{}{
		"body": body,
	})
	c.JSON(http.StatusOK, body)
}

// decodeAndValidate reads the body once, checks it against the schema, and
// returns the raw document for typed re-binding.
func (s *Server) decodeAndValidate(c *gin.Context, schema map[string]interface{}) (map[string]interface{}, bool) {
	data, err := c.GetRawData()
	if err != nil {
		s.badRequest(c, gwerrors.NewInvalidPayloadError(err.Error()))
		return nil, false
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		s.badRequest(c, gwerrors.NewInvalidPayloadError(err.Error()))
		return nil, false
	}

	if err := validation.Validate(raw, schema); err != nil {
		s.badRequest(c, gwerrors.NewInvalidPayloadError(err.Error()))
		return nil, false
	}

	return raw, true
}

func (s *Server) badRequest(c *gin.Context, stdErr *gwerrors.StandardError) {
	status := stdErr.HTTPStatus
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, ErrorResponse{
		Success: false,
		Error:   stdErr.Message,
		Code:    string(stdErr.Code),
	})
}

func remarshal(raw map[string]interface{}, out interface{}) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func unavailableOf(results []models.InventoryResult) []models.InventoryResult {
	var out []models.InventoryResult
	for _, r := range results {
		if !r.Available {
			out = append(out, r)
		}
	}
	return out
}

// formatShortfalls renders "title (requested: Q, available: A)" entries
// joined by ", " for conversational playback.
func formatShortfalls(shortfalls []models.InventoryResult) string {
	parts := make([]string, len(shortfalls))
	for i, r := range shortfalls {
		parts[i] = fmt.Sprintf("%s (requested: %d, available: %d)", r.Title, r.RequestedQuantity, r.AvailableQuantity)
	}
	return strings.Join(parts, ", ")
}

func draftOrderInput(orderReq *models.OrderRequest) *shopify.DraftOrderInput {
	items := make([]shopify.DraftOrderLineItem, len(orderReq.LineItems))
	for i, li := range orderReq.LineItems {
		items[i] = shopify.DraftOrderLineItem{
			VariantID: li.VariantID,
			Quantity:  li.Quantity,
		}
	}

	return &shopify.DraftOrderInput{
		LineItems: items,
		Customer: shopify.DraftOrderCustomer{
			FirstName: orderReq.Customer.FirstName,
			LastName:  orderReq.Customer.LastName,
			Email:     orderReq.Customer.Email,
			Phone:     orderReq.Customer.Phone,
		},
		Email:           orderReq.Customer.Email,
		BillingAddress:  draftAddress(orderReq.BillingAddress),
		ShippingAddress: draftAddress(orderReq.ShippingAddress),
		Note:            orderReq.Note,
		Tags:            "voice-order",
	}
}

func draftAddress(a models.AddressRecord) shopify.DraftOrderAddress {
	return shopify.DraftOrderAddress{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Address1:  a.Address1,
		City:      a.City,
		Province:  a.Province,
		Country:   a.Country,
		Zip:       a.Zip,
		Phone:     a.Phone,
	}
}
