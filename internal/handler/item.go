package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/stock-adjustment-service/internal/repository"
	"github.com/maxviazov/stock-adjustment-service/internal/service"
	"github.com/maxviazov/stock-adjustment-service/pkg/response"
)

type ItemHandler struct {
	svc service.ItemService
}

func NewItemHandler(svc service.ItemService) *ItemHandler { return &ItemHandler{svc: svc} }

func (h *ItemHandler) Register(r *gin.RouterGroup) {
	g := r.Group(ItemsPath)
	{
		g.POST("", h.create)
		g.GET("/:id", h.getByID)
		g.GET("", h.list)
	}
}

func (h *ItemHandler) create(c *gin.Context) {
	var req service.CreateItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput) // parse details stay internal
		return
	}
	item, err := h.svc.CreateItem(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, item)
}

func (h *ItemHandler) getByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	item, err := h.svc.GetItem(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, item)
}

func (h *ItemHandler) list(c *gin.Context) {
	p := &queryParser{c: c}
	req := pageRequest(p, repository.ItemFilter{Code: p.str("code"), Name: p.str("name")})
	if err := p.err(); err != nil {
		response.WriteError(c, err)
		return
	}
	res, err := h.svc.ListItems(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	writePage(c, res)
}
