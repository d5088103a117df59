package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/stock-adjustment-service/internal/model"
	"github.com/maxviazov/stock-adjustment-service/internal/repository"
	"github.com/maxviazov/stock-adjustment-service/internal/service"
	"github.com/maxviazov/stock-adjustment-service/pkg/response"
)

type AdjustmentHandler struct {
	svc service.AdjustmentService
}

func NewAdjustmentHandler(svc service.AdjustmentService) *AdjustmentHandler {
	return &AdjustmentHandler{svc: svc}
}

func (h *AdjustmentHandler) Register(r *gin.RouterGroup) {
	g := r.Group(AdjustmentsPath)
	{
		g.POST("", h.create)
		g.GET("/:id", h.getByID)
		g.GET("", h.list)
	}
}

func (h *AdjustmentHandler) create(c *gin.Context) {
	var req service.CreateAdjustmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	adj, err := h.svc.CreateAdjustment(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, adj)
}

func (h *AdjustmentHandler) getByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	adj, err := h.svc.GetAdjustment(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, adj)
}

// list serves the paginated "get" accessor: GET /adjustments?page=&limit=&<filter>.
func (h *AdjustmentHandler) list(c *gin.Context) {
	p := &queryParser{c: c}
	req := pageRequest(p, repository.AdjustmentFilter{
		ItemID:  p.id("item_id"),
		StockID: p.id("stock_id"),
		StoreID: p.id("store_id"),
		PartyID: p.id("party_id"),
		Type:    model.AdjustmentType(p.str("type")),
		Reason:  model.AdjustmentReason(p.str("reason")),
	})
	if err := p.err(); err != nil {
		response.WriteError(c, err)
		return
	}
	res, err := h.svc.ListAdjustments(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	writePage(c, res)
}
