// Package server wires the HTTP surface of the order gateway: inbound
// routes, middleware, and orchestration of the matcher, validator,
// assembler and outbound collaborators.
package server

import (
	"context"
	"net/http"
	"net/http/pprof"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"voice-order-gateway/internal/common/config"
	"voice-order-gateway/internal/common/logger"
	"voice-order-gateway/internal/common/observability"
	"voice-order-gateway/internal/inventory"
	"voice-order-gateway/internal/orders"
	"voice-order-gateway/internal/shopify"
	"voice-order-gateway/internal/webhook"
)

// CommerceClient is the slice of the commerce API the handlers need.
type CommerceClient interface {
	GetVariant(ctx context.Context, variantID int64) (*shopify.Variant, error)
	SearchProducts(ctx context.Context, title string, limit int) ([]shopify.Product, error)
	CreateDraftOrder(ctx context.Context, input *shopify.DraftOrderInput) (*shopify.DraftOrder, error)
	SendDraftOrderInvoice(ctx context.Context, draftOrderID int64) error
}

type Server struct {
	appName     string
	appVersion  string
	searchLimit int

	commerce  CommerceClient
	validator *inventory.Validator
	assembler *orders.Assembler
	notifier  *webhook.Notifier
	obs       *observability.Observability
	logger    logger.Logger
}

func New(cfg *config.Config, commerce CommerceClient, notifier *webhook.Notifier, obs *observability.Observability, log logger.Logger) *Server {
	return &Server{
		appName:     cfg.App.Name,
		appVersion:  cfg.App.Version,
		searchLimit: cfg.Shopify.SearchLimit,
		commerce:    commerce,
		validator:   inventory.NewValidator(commerce, log),
		assembler:   orders.NewAssembler(cfg.Orders),
		notifier:    notifier,
		obs:         obs,
		logger: log.With(map[string]interface{}{
			"component": "server",
		}),
	}
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(MetricsMiddleware(s.obs))

	router.POST("/check-inventory", s.handleCheckInventory)
	router.POST("/place-order", s.handlePlaceOrder)
	router.GET("/health", s.handleHealth)
	router.POST("/debug/echo", s.handleEcho)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/debug/pprof/*profile", gin.WrapH(http.HandlerFunc(pprof.Index)))

	return router
}
