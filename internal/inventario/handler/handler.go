package handler

import (
	"errors"
	"ganadero-server/internal/apierrors"
	"ganadero-server/internal/inventario/processor"
	"ganadero-server/internal/observability"
	"ganadero-server/internal/store"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	processor processor.InventarioProcessor
	logger    *observability.Logger
}

func New(processor processor.InventarioProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

// HandleList handles GET /api/inventario
func (h *Handler) HandleList(c *gin.Context) {
	items, err := h.processor.List(c.Request.Context())
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inventario": items, "total": len(items)})
}

// HandleStockBajo handles GET /api/inventario/stock-bajo
func (h *Handler) HandleStockBajo(c *gin.Context) {
	limite, _ := strconv.Atoi(c.DefaultQuery("limite", "0"))

	items, err := h.processor.StockBajo(c.Request.Context(), limite)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

// HandleGet handles GET /api/inventario/:id
func (h *Handler) HandleGet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "ID de inventario inválido")
		return
	}

	item, err := h.processor.Get(c.Request.Context(), id)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// InventarioRequest is the payload for creating or updating an item.
type InventarioRequest struct {
	Nombre      string `json:"nombre" binding:"required"`
	Categoria   string `json:"categoria"`
	Cantidad    int    `json:"cantidad"`
	Unidad      string `json:"unidad"`
	StockMinimo int    `json:"stock_minimo"`
}

// HandleCreate handles POST /api/inventario
func (h *Handler) HandleCreate(c *gin.Context) {
	ctx := c.Request.Context()

	var req InventarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind inventario request", err)
		apierrors.BadRequest(c, "Solicitud inválida")
		return
	}

	item, err := h.processor.Create(ctx, store.InventarioItem{
		Nombre:      req.Nombre,
		Categoria:   req.Categoria,
		Cantidad:    req.Cantidad,
		Unidad:      req.Unidad,
		StockMinimo: req.StockMinimo,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// HandleUpdate handles PUT /api/inventario/:id
func (h *Handler) HandleUpdate(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "ID de inventario inválido")
		return
	}

	var req InventarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Solicitud inválida")
		return
	}

	item, err := h.processor.Update(ctx, store.InventarioItem{
		ID:          id,
		Nombre:      req.Nombre,
		Categoria:   req.Categoria,
		Cantidad:    req.Cantidad,
		Unidad:      req.Unidad,
		StockMinimo: req.StockMinimo,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// StockRequest is a stock movement: operacion sumar|restar.
type StockRequest struct {
	Operacion string `json:"operacion" binding:"required"`
	Cantidad  int    `json:"cantidad" binding:"required,min=1"`
}

// HandleAjustarStock handles PATCH /api/inventario/:id/stock
func (h *Handler) HandleAjustarStock(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "ID de inventario inválido")
		return
	}

	var req StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Solicitud inválida")
		return
	}

	item, err := h.processor.AjustarStock(ctx, id, req.Operacion, req.Cantidad)
	if err != nil {
		if errors.Is(err, processor.ErrOperacionInvalida) {
			apierrors.BadRequest(c, "Operación no válida, use sumar o restar")
			return
		}
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// HandleDelete handles DELETE /api/inventario/:id
func (h *Handler) HandleDelete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "ID de inventario inválido")
		return
	}

	if err := h.processor.Delete(c.Request.Context(), id); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "eliminado": true})
}
