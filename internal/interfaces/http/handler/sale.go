package handler

import (
	"github.com/gin-gonic/gin"

	salesapp "github.com/primtakip/backend/internal/application/sales"
	"github.com/primtakip/backend/internal/interfaces/http/middleware"
)

// SaleHandler handles sale endpoints
type SaleHandler struct {
	BaseHandler
	saleService *salesapp.SaleService
	stats       StatsInvalidator
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *salesapp.SaleService, stats StatsInvalidator) *SaleHandler {
	return &SaleHandler{saleService: saleService, stats: stats}
}

// invalidateStats drops cached statistics after a successful mutation
func (h *SaleHandler) invalidateStats(c *gin.Context) {
	if h.stats != nil {
		h.stats.Invalidate(c.Request.Context())
	}
}

// RegisterRoutes registers the sale routes
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	sales.GET("", h.List)
	sales.POST("", h.Create)
	sales.POST("/recalculate", middleware.RequireAdmin(), h.Recalculate)
	sales.GET("/:id", h.GetByID)
	sales.PUT("/:id", h.Modify)
	sales.DELETE("/:id", h.Delete)
	sales.POST("/:id/cancel", h.Cancel)
	sales.POST("/:id/restore", h.Restore)
	sales.POST("/:id/commission-paid", h.SetCommissionPaid)
}

// List returns sales matching the filter. Non-admin callers only see
// their own records.
func (h *SaleHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter salesapp.SaleListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	items, total, err := h.saleService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, items, total, page, pageSize)
}

// Create records a new sale with the current commission rate snapshotted
func (h *SaleHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req salesapp.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	sale, err := h.saleService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.invalidateStats(c)
	h.Created(c, sale)
}

// GetByID returns a single sale
func (h *SaleHandler) GetByID(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	saleID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.GetByID(c.Request.Context(), actor, saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// Modify applies a partial update and reports the commission impact
func (h *SaleHandler) Modify(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	saleID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	var req salesapp.ModifySaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.saleService.Modify(c.Request.Context(), actor, saleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.invalidateStats(c)
	h.Success(c, result)
}

// Delete soft-deletes a sale
func (h *SaleHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	saleID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	if err := h.saleService.Delete(c.Request.Context(), actor, saleID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.invalidateStats(c)
	h.NoContent(c)
}

// Cancel cancels an active sale
func (h *SaleHandler) Cancel(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	saleID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.Cancel(c.Request.Context(), actor, saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.invalidateStats(c)
	h.Success(c, sale)
}

// Restore reactivates a cancelled sale
func (h *SaleHandler) Restore(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	saleID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.Restore(c.Request.Context(), actor, saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.invalidateStats(c)
	h.Success(c, sale)
}

// SetCommissionPaid marks or unmarks a sale's commission as paid out
func (h *SaleHandler) SetCommissionPaid(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	saleID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	var req salesapp.SetCommissionPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	sale, err := h.saleService.SetCommissionPaid(c.Request.Context(), actor, saleID, req.Paid)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.invalidateStats(c)
	h.Success(c, sale)
}

// Recalculate re-derives commissions for all active sales from their
// snapshot rates
func (h *SaleHandler) Recalculate(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.saleService.Recalculate(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.invalidateStats(c)
	h.Success(c, result)
}
