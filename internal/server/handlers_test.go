// internal/server/handlers_test.go
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-order-gateway/internal/common/config"
	"voice-order-gateway/internal/common/logger"
	"voice-order-gateway/internal/shopify"
	"voice-order-gateway/internal/webhook"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubCommerce fakes the commerce platform and records call counts.
type stubCommerce struct {
	mu           sync.Mutex
	variants     map[int64]*shopify.Variant
	variantErr   error
	products     []shopify.Product
	searchErr    error
	draft        *shopify.DraftOrder
	createErr    error
	invoiceErr   error
	variantCalls int
	searchCalls  int
	createCalls  int
	invoiceCalls int
}

func (s *stubCommerce) GetVariant(ctx context.Context, variantID int64) (*shopify.Variant, error) {
	s.mu.Lock()
	s.variantCalls++
	s.mu.Unlock()
	if s.variantErr != nil {
		return nil, s.variantErr
	}
	v, ok := s.variants[variantID]
	if !ok {
		return nil, fmt.Errorf("variant %d not found", variantID)
	}
	return v, nil
}

func (s *stubCommerce) SearchProducts(ctx context.Context, title string, limit int) ([]shopify.Product, error) {
	s.mu.Lock()
	s.searchCalls++
	s.mu.Unlock()
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.products, nil
}

func (s *stubCommerce) CreateDraftOrder(ctx context.Context, input *shopify.DraftOrderInput) (*shopify.DraftOrder, error) {
	s.mu.Lock()
	s.createCalls++
	s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.draft, nil
}

func (s *stubCommerce) SendDraftOrderInvoice(ctx context.Context, draftOrderID int64) error {
	s.mu.Lock()
	s.invoiceCalls++
	s.mu.Unlock()
	return s.invoiceErr
}

func (s *stubCommerce) calls() (variant, search, create, invoice int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.variantCalls, s.searchCalls, s.createCalls, s.invoiceCalls
}

// webhookRecorder captures relayed events.
type webhookRecorder struct {
	mu     sync.Mutex
	events []string
}

func (r *webhookRecorder) serve() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var env struct {
			Event string `json:"event"`
		}
		_ = json.NewDecoder(req.Body).Decode(&env)
		r.mu.Lock()
		r.events = append(r.events, env.Event)
		r.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
}

func (r *webhookRecorder) countOf(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

func (r *webhookRecorder) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func newTestServer(t *testing.T, commerce *stubCommerce) (*gin.Engine, *webhookRecorder) {
	t.Helper()

	rec := &webhookRecorder{}
	ts := rec.serve()
	t.Cleanup(ts.Close)

	cfg := &config.Config{
		App:     config.AppConfig{Name: "order-gateway", Version: "test"},
		Shopify: config.ShopifyConfig{SearchLimit: 10},
		Webhook: config.WebhookConfig{URL: ts.URL, Timeout: 2000, Enabled: true},
		Orders:  config.OrdersConfig{AddressFallback: true, DefaultNote: "Order placed via phone call"},
	}

	log := logger.NewTestLogger(t)
	notifier := webhook.NewNotifier(cfg.Webhook, log)
	srv := New(cfg, commerce, notifier, nil, log)

	return srv.Router(), rec
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func inStockCommerce() *stubCommerce {
	return &stubCommerce{
		variants: map[int64]*shopify.Variant{
			42: {ID: 42, Title: "Classic Tee - Large / Blue", Price: "19.99", InventoryQuantity: 10},
			43: {ID: 43, Title: "Classic Tee - Small / Red", Price: "19.99", InventoryQuantity: 2},
		},
		draft: &shopify.DraftOrder{ID: 1001, Name: "#D1001", Status: "open"},
	}
}

// ==========================
// place-order
// ==========================

func TestPlaceOrder_MissingEmail(t *testing.T) {
	commerce := inStockCommerce()
	router, rec := newTestServer(t, commerce)

	w := doJSON(router, http.MethodPost, "/place-order", map[string]interface{}{
		"customer_info": map[string]interface{}{"first_name": "Jamie"},
		"line_items":    []map[string]interface{}{{"variant_id": 42, "quantity": 1}},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Customer email is required", resp.Error)

	// No outbound commerce or webhook traffic for caller input errors.
	time.Sleep(100 * time.Millisecond)
	variant, _, create, invoice := commerce.calls()
	assert.Zero(t, variant)
	assert.Zero(t, create)
	assert.Zero(t, invoice)
	assert.Zero(t, rec.total())
}

func TestPlaceOrder_EmptyLineItems(t *testing.T) {
	router, _ := newTestServer(t, inStockCommerce())

	w := doJSON(router, http.MethodPost, "/place-order", map[string]interface{}{
		"customer_info": map[string]interface{}{"email": "caller@example.com"},
		"line_items":    []map[string]interface{}{},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "At least one line item is required", resp.Error)
}

func TestPlaceOrder_InsufficientInventory(t *testing.T) {
	commerce := inStockCommerce()
	router, rec := newTestServer(t, commerce)

	w := doJSON(router, http.MethodPost, "/place-order", map[string]interface{}{
		"customer_info": map[string]interface{}{"email": "caller@example.com"},
		"line_items":    []map[string]interface{}{{"variant_id": 43, "quantity": 5}},
		"call_id":       "call-1",
	})

	// Business-rule rejection is a conversational outcome, not an HTTP error.
	assert.Equal(t, http.StatusOK, w.Code)

	var resp PlaceOrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "insufficient_inventory", resp.Error)
	assert.Contains(t, resp.Message, "Classic Tee - Small / Red (requested: 5, available: 2)")

	require.Len(t, resp.UnavailableItems, 1)
	assert.Equal(t, int64(43), resp.UnavailableItems[0].VariantID)
	assert.Equal(t, 5, resp.UnavailableItems[0].RequestedQuantity)
	assert.Equal(t, 2, resp.UnavailableItems[0].AvailableQuantity)

	_, _, create, _ := commerce.calls()
	assert.Zero(t, create, "no draft order is created on rejection")

	assert.Eventually(t, func() bool { return rec.countOf(webhook.EventOrderFailed) == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestPlaceOrder_Success(t *testing.T) {
	commerce := inStockCommerce()
	router, rec := newTestServer(t, commerce)

	w := doJSON(router, http.MethodPost, "/place-order", map[string]interface{}{
		"customer_info": map[string]interface{}{
			"first_name": "Jamie",
			"email":      "caller@example.com",
		},
		"line_items": []map[string]interface{}{{"variant_id": 42, "quantity": 2}},
		"shipping_address": map[string]interface{}{
			"address1": "500 Congress Ave",
			"city":     "Austin",
			"province": "TX",
			"country":  "US",
			"zip":      "78701",
		},
		"call_id": "call-2",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp PlaceOrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(1001), resp.OrderID)
	assert.Equal(t, "#D1001", resp.OrderName)
	assert.Equal(t, 1, resp.ItemCount)
	assert.True(t, resp.InvoiceSent)
	assert.Contains(t, resp.Message, "#D1001")
	assert.Contains(t, resp.Message, "1 item(s)")
	assert.Equal(t, "call-2", resp.CallID)

	_, _, create, invoice := commerce.calls()
	assert.Equal(t, 1, create)
	assert.Equal(t, 1, invoice)

	// Exactly one draft_order_created relay attempt.
	assert.Eventually(t, func() bool { return rec.countOf(webhook.EventDraftOrderCreated) == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, rec.countOf(webhook.EventDraftOrderCreated))
}

func TestPlaceOrder_InvoiceFailureDegradesButSucceeds(t *testing.T) {
	commerce := inStockCommerce()
	commerce.invoiceErr = fmt.Errorf("smtp relay unavailable")
	router, _ := newTestServer(t, commerce)

	w := doJSON(router, http.MethodPost, "/place-order", map[string]interface{}{
		"customer_info": map[string]interface{}{"email": "caller@example.com"},
		"line_items":    []map[string]interface{}{{"variant_id": 42, "quantity": 1}},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp PlaceOrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.False(t, resp.InvoiceSent)
	assert.Contains(t, resp.Message, "could not confirm the invoice email")
}

func TestPlaceOrder_DraftOrderCreationFails(t *testing.T) {
	commerce := inStockCommerce()
	commerce.createErr = fmt.Errorf("upstream status 502")
	router, rec := newTestServer(t, commerce)

	w := doJSON(router, http.MethodPost, "/place-order", map[string]interface{}{
		"customer_info": map[string]interface{}{"email": "caller@example.com"},
		"line_items":    []map[string]interface{}{{"variant_id": 42, "quantity": 1}},
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp PlaceOrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "order_creation_failed", resp.Error)
	// Upstream detail is not exposed to the caller.
	assert.NotContains(t, resp.Message, "502")

	assert.Eventually(t, func() bool { return rec.countOf(webhook.EventOrderFailed) == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestPlaceOrder_InvalidQuantity(t *testing.T) {
	router, _ := newTestServer(t, inStockCommerce())

	w := doJSON(router, http.MethodPost, "/place-order", map[string]interface{}{
		"customer_info": map[string]interface{}{"email": "caller@example.com"},
		"line_items":    []map[string]interface{}{{"variant_id": 42, "quantity": 0}},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ==========================
// check-inventory
// ==========================

func TestCheckInventory_LineItems(t *testing.T) {
	router, rec := newTestServer(t, inStockCommerce())

	w := doJSON(router, http.MethodPost, "/check-inventory", map[string]interface{}{
		"line_items": []map[string]interface{}{
			{"variant_id": 42, "quantity": 3},
			{"variant_id": 43, "quantity": 5},
		},
		"call_id": "call-3",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp CheckInventoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.False(t, resp.AllAvailable)
	require.Len(t, resp.Items, 2)
	assert.True(t, resp.Items[0].Available)
	assert.False(t, resp.Items[1].Available)
	assert.Contains(t, resp.Message, "(requested: 5, available: 2)")

	assert.Eventually(t, func() bool { return rec.countOf(webhook.EventInventoryChecked) == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestCheckInventory_ProductSearch(t *testing.T) {
	commerce := inStockCommerce()
	commerce.products = []shopify.Product{
		{
			ID:    7,
			Title: "Classic Tee",
			Variants: []shopify.Variant{
				{ID: 42, Title: "Large / Blue", Option1: "Large", Option2: "Blue", Price: "19.99", InventoryQuantity: 10},
				{ID: 43, Title: "Small / Red", Option1: "Small", Option2: "Red", Price: "19.99", InventoryQuantity: 2},
			},
		},
	}
	router, _ := newTestServer(t, commerce)

	w := doJSON(router, http.MethodPost, "/check-inventory", map[string]interface{}{
		"product_name":    "Classic Tee",
		"variant_details": "large blue",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp CheckInventoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotEmpty(t, resp.Matches)
	assert.Equal(t, int64(42), resp.Matches[0].VariantID)
}

func TestCheckInventory_NoMatches(t *testing.T) {
	commerce := inStockCommerce()
	commerce.products = []shopify.Product{}
	router, _ := newTestServer(t, commerce)

	w := doJSON(router, http.MethodPost, "/check-inventory", map[string]interface{}{
		"product_name": "Nonexistent Widget",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp CheckInventoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "no_matching_variants", resp.Error)
}

func TestCheckInventory_MissingInput(t *testing.T) {
	router, _ := newTestServer(t, inStockCommerce())

	w := doJSON(router, http.MethodPost, "/check-inventory", map[string]interface{}{
		"call_id": "call-4",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ==========================
// health + echo
// ==========================

func TestHealth(t *testing.T) {
	router, _ := newTestServer(t, inStockCommerce())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestEcho_ReturnsBodyUnchanged(t *testing.T) {
	router, _ := newTestServer(t, inStockCommerce())

	body := map[string]interface{}{"anything": "goes", "nested": map[string]interface{}{"n": float64(1)}}
	w := doJSON(router, http.MethodPost, "/debug/echo", body)

	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, body, got)
}

func TestRequestIDHeader(t *testing.T) {
	router, _ := newTestServer(t, inStockCommerce())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get("X-Request-ID"))
}
