// Package webhook relays response payloads to the workflow-automation
// platform. Delivery is best-effort: failures are logged and counted, never
// propagated to the caller.
package webhook

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"voice-order-gateway/internal/common/config"
	gwerrors "voice-order-gateway/internal/common/errors"
	"voice-order-gateway/internal/common/logger"
	"voice-order-gateway/internal/common/metrics"
)

// Event types discriminate relayed payloads on the automation side.
const (
	EventDraftOrderCreated = "draft_order_created"
	EventOrderFailed       = "order_failed"
	EventInventoryChecked  = "inventory_checked"
)

type Notifier struct {
	url     string
	timeout time.Duration
	enabled bool
	client  *resty.Client
	logger  logger.Logger
}

func NewNotifier(cfg config.WebhookConfig, log logger.Logger) *Notifier {
	timeout := config.GetDuration(cfg.Timeout)

	return &Notifier{
		url:     cfg.URL,
		timeout: timeout,
		enabled: cfg.Enabled,
		client: resty.New().
			SetTimeout(timeout).
			SetRetryCount(0),
		logger: log.With(map[string]interface{}{
			"component": "webhook",
		}),
	}
}

// envelope wraps the relayed payload with its discriminating event tag.
type envelope struct {
	Event     string      `json:"event"`
	Timestamp string      `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Notify delivers one event synchronously, bounded by the configured
// timeout. Exactly one attempt is made.
func (n *Notifier) Notify(ctx context.Context, event string, payload interface{}) error {
	if !n.enabled || n.url == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(envelope{
			Event:     event,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Payload:   payload,
		}).
		Post(n.url)

	if err == nil && resp.StatusCode() >= http.StatusBadRequest {
		err = fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}

	if err != nil {
		metrics.WebhookNotifications.WithLabelValues(event, "failed").Inc()
		notifyErr := gwerrors.NewWebhookNotifyFailedError(err)
		n.logger.WithError(notifyErr).Warn("webhook notification failed", map[string]interface{}{
			"event": event,
		})
		return notifyErr
	}

	metrics.WebhookNotifications.WithLabelValues(event, "delivered").Inc()
	n.logger.Debug("webhook notification delivered", map[string]interface{}{
		"event": event,
	})
	return nil
}

// NotifyAsync fires a detached notification. The HTTP response to the
// caller never waits on it; the notification's own deadline caps how long
// it may run after the request completes.
func (n *Notifier) NotifyAsync(event string, payload interface{}) {
	if !n.enabled || n.url == "" {
		return
	}

	go func() {
		_ = n.Notify(context.Background(), event, payload)
	}()
}
