package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"voice-order-gateway/internal/common/config"
	gwhttp "voice-order-gateway/internal/common/http"
	"voice-order-gateway/internal/common/metrics"
	"voice-order-gateway/internal/common/resilience"
)

// Client talks to the Shopify admin REST API. Every call is attempted
// exactly once and routed through a circuit breaker; an open breaker
// surfaces as an ordinary upstream error.
type Client struct {
	accessToken string
	baseURL     string
	httpClient  *gwhttp.Client
	breaker     *resilience.CircuitBreakerWrapper
}

func NewClient(cfg config.ShopifyConfig, breaker *resilience.CircuitBreakerWrapper) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s/admin/api/%s", cfg.ShopDomain, cfg.APIVersion)
	}

	return &Client{
		accessToken: cfg.AccessToken,
		baseURL:     baseURL,
		httpClient:  gwhttp.NewClient(config.GetDuration(cfg.Timeout)),
		breaker:     breaker,
	}
}

// GetVariant fetches a single variant's current state by id.
func (c *Client) GetVariant(ctx context.Context, variantID int64) (*Variant, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/variants/%d.json", c.baseURL, variantID), "get_variant")
	if err != nil {
		return nil, err
	}

	var result struct {
		Variant Variant `json:"variant"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal variant: %w", err)
	}

	return &result.Variant, nil
}

// SearchProducts searches products by title with a bounded page size.
func (c *Client) SearchProducts(ctx context.Context, title string, limit int) ([]Product, error) {
	u := fmt.Sprintf("%s/products.json?title=%s&limit=%d", c.baseURL, url.QueryEscape(title), limit)

	body, err := c.get(ctx, u, "search_products")
	if err != nil {
		return nil, err
	}

	var result struct {
		Products []Product `json:"products"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal products: %w", err)
	}

	return result.Products, nil
}

// CreateDraftOrder creates an unconfirmed, payable draft order.
func (c *Client) CreateDraftOrder(ctx context.Context, input *DraftOrderInput) (*DraftOrder, error) {
	payload := map[string]interface{}{
		"draft_order": input,
	}

	body, err := c.post(ctx, c.baseURL+"/draft_orders.json", payload, "create_draft_order")
	if err != nil {
		return nil, err
	}

	var result struct {
		DraftOrder DraftOrder `json:"draft_order"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft order: %w", err)
	}

	if result.DraftOrder.ID == 0 {
		return nil, fmt.Errorf("no draft order in response")
	}

	return &result.DraftOrder, nil
}

// SendDraftOrderInvoice triggers the platform's email invoice for a draft order.
func (c *Client) SendDraftOrderInvoice(ctx context.Context, draftOrderID int64) error {
	payload := map[string]interface{}{
		"draft_order_invoice": map[string]interface{}{},
	}

	_, err := c.post(ctx, fmt.Sprintf("%s/draft_orders/%d/send_invoice.json", c.baseURL, draftOrderID), payload, "send_invoice")
	return err
}

func (c *Client) get(ctx context.Context, url, operation string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.execute(req, operation)
}

func (c *Client) post(ctx context.Context, url string, payload interface{}, operation string) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.execute(req, operation)
}

func (c *Client) execute(req *http.Request, operation string) ([]byte, error) {
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to execute request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated &&
			resp.StatusCode != http.StatusAccepted {
			return nil, fmt.Errorf("%s failed (status %d): %s", operation, resp.StatusCode, string(body))
		}

		return body, nil
	})
	metrics.CommerceAPIDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, resilience.FormatError("shopify", err)
	}

	return result.([]byte), nil
}
