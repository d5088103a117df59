package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/stock-adjustment-service/internal/repository"
	"github.com/maxviazov/stock-adjustment-service/internal/service"
	"github.com/maxviazov/stock-adjustment-service/pkg/response"
)

type StockHandler struct {
	svc service.StockService
}

func NewStockHandler(svc service.StockService) *StockHandler { return &StockHandler{svc: svc} }

func (h *StockHandler) Register(r *gin.RouterGroup) {
	g := r.Group(StocksPath)
	{
		g.POST("", h.create)
		g.GET("/:id", h.getByID)
		g.GET("", h.list)
	}
}

func (h *StockHandler) create(c *gin.Context) {
	var req service.CreateStockInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	stock, err := h.svc.CreateStock(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, stock)
}

func (h *StockHandler) getByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	stock, err := h.svc.GetStock(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, stock)
}

func (h *StockHandler) list(c *gin.Context) {
	p := &queryParser{c: c}
	req := pageRequest(p, repository.StockFilter{
		ItemID:  p.id("item_id"),
		StoreID: p.id("store_id"),
		OwnerID: p.id("owner_id"),
	})
	if err := p.err(); err != nil {
		response.WriteError(c, err)
		return
	}
	res, err := h.svc.ListStocks(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	writePage(c, res)
}
