// Package inventory checks requested line-item quantities against current
// stock in the commerce backend.
package inventory

import (
	"context"
	"sync"

	"voice-order-gateway/internal/common/logger"
	"voice-order-gateway/internal/common/metrics"
	"voice-order-gateway/internal/models"
	"voice-order-gateway/internal/shopify"
)

// failedLookupTitle labels results whose variant could not be fetched.
const failedLookupTitle = "Unknown item"

// VariantFetcher is the single capability the validator needs from the
// commerce client.
type VariantFetcher interface {
	GetVariant(ctx context.Context, variantID int64) (*shopify.Variant, error)
}

type Validator struct {
	fetcher VariantFetcher
	logger  logger.Logger
}

func NewValidator(fetcher VariantFetcher, log logger.Logger) *Validator {
	return &Validator{
		fetcher: fetcher,
		logger: log.With(map[string]interface{}{
			"component": "inventory",
		}),
	}
}

// CheckAvailability produces one InventoryResult per line item, preserving
// input order. Lookups run concurrently and are merged by index; a failed
// lookup becomes an unavailable result and never aborts the batch. The
// whole batch completes before returning, so callers always get full
// per-item diagnostics.
//
// The check is not atomic with order creation: stock can change between
// check and create. Accepted at this system's scale.
func (v *Validator) CheckAvailability(ctx context.Context, items []models.LineItem) []models.InventoryResult {
	results := make([]models.InventoryResult, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(idx int, li models.LineItem) {
			defer wg.Done()
			results[idx] = v.checkItem(ctx, li)
		}(i, item)
	}
	wg.Wait()

	for _, r := range results {
		if r.Available {
			metrics.InventoryChecks.WithLabelValues("available").Inc()
		} else {
			metrics.InventoryChecks.WithLabelValues("unavailable").Inc()
		}
	}

	return results
}

func (v *Validator) checkItem(ctx context.Context, item models.LineItem) models.InventoryResult {
	variant, err := v.fetcher.GetVariant(ctx, item.VariantID)
	if err != nil {
		v.logger.WithError(err).Warn("variant lookup failed", map[string]interface{}{
			"variantId": item.VariantID,
		})
		return models.InventoryResult{
			VariantID:         item.VariantID,
			Title:             failedLookupTitle,
			RequestedQuantity: item.Quantity,
			AvailableQuantity: 0,
			Available:         false,
		}
	}

	return models.InventoryResult{
		VariantID:         item.VariantID,
		Title:             variant.Title,
		RequestedQuantity: item.Quantity,
		AvailableQuantity: variant.InventoryQuantity,
		Available:         variant.InventoryQuantity >= item.Quantity,
	}
}
