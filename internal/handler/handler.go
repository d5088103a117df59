package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maxviazov/stock-adjustment-service/internal/service"
)

// Register mounts all public routes on the given engine.
// Accepts service layer dependencies for API endpoints.
func Register(r *gin.Engine, repo Pinger, itemSvc service.ItemService, stockSvc service.StockService, adjustmentSvc service.AdjustmentService, logger zerolog.Logger) {
	h := NewHealthHandler(repo)

	r.Use(RequestID(), AccessLog(logger))

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	// Docs endpoints (root-level)
	RegisterDocs(r)

	api := r.Group(APIV1Prefix) // Versioning added via single source of truth
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewItemHandler(itemSvc).Register(api)
		NewStockHandler(stockSvc).Register(api)
		NewAdjustmentHandler(adjustmentSvc).Register(api)
	}
}
