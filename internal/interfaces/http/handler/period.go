package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	periodapp "github.com/primtakip/backend/internal/application/period"
	salesapp "github.com/primtakip/backend/internal/application/sales"
	"github.com/primtakip/backend/internal/domain/identity"
)

// PeriodHandler handles commission period endpoints
type PeriodHandler struct {
	BaseHandler
	periodService *periodapp.PeriodService
	stats         StatsInvalidator
}

// NewPeriodHandler creates a new PeriodHandler
func NewPeriodHandler(periodService *periodapp.PeriodService, stats StatsInvalidator) *PeriodHandler {
	return &PeriodHandler{periodService: periodService, stats: stats}
}

// invalidateStats drops cached statistics after a successful mutation
func (h *PeriodHandler) invalidateStats(c *gin.Context) {
	if h.stats != nil {
		h.stats.Invalidate(c.Request.Context())
	}
}

// RegisterRoutes registers the period routes
func (h *PeriodHandler) RegisterRoutes(rg *gin.RouterGroup) {
	periods := rg.Group("/periods")
	periods.GET("", h.List)
	periods.POST("", h.Create)
	periods.POST("/next", h.CreateNext)
	periods.GET("/:id", h.GetByID)
	periods.GET("/:id/sales", h.GetSales)
	periods.POST("/:id/sales", h.AddSale)
	periods.POST("/:id/activate", h.Activate)
	periods.POST("/:id/close", h.Close)
	periods.POST("/:id/mark-paid", h.MarkPaid)
	periods.POST("/:id/calculate", h.Calculate)
	periods.POST("/:id/transfer", h.Transfer)
}

// List returns periods matching the filter
func (h *PeriodHandler) List(c *gin.Context) {
	var filter periodapp.PeriodListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	items, total, err := h.periodService.List(c.Request.Context(), filter)
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

// Create creates a period for an explicit year and month
func (h *PeriodHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req periodapp.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	p, err := h.periodService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, p)
}

// CreateNext creates the period for the month after the latest one
func (h *PeriodHandler) CreateNext(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	p, err := h.periodService.CreateNext(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, p)
}

// GetByID returns a single period
func (h *PeriodHandler) GetByID(c *gin.Context) {
	periodID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid period ID")
		return
	}

	p, err := h.periodService.GetByID(c.Request.Context(), periodID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, p)
}

// GetSales returns the sales inside the period's window plus transfers
func (h *PeriodHandler) GetSales(c *gin.Context) {
	periodID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid period ID")
		return
	}

	items, err := h.periodService.GetSales(c.Request.Context(), periodID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, salesapp.ToSaleResponses(items))
}

// AddSale manually pulls a sale into the period's transfer list
func (h *PeriodHandler) AddSale(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	periodID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid period ID")
		return
	}

	var req periodapp.AddSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	p, err := h.periodService.AddSaleManually(c.Request.Context(), actor, periodID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.invalidateStats(c)
	h.Success(c, p)
}

// Activate promotes the period, demoting any other active one
func (h *PeriodHandler) Activate(c *gin.Context) {
	h.transition(c, h.periodService.Activate)
}

// Close freezes the period with freshly calculated figures
func (h *PeriodHandler) Close(c *gin.Context) {
	h.transition(c, h.periodService.Close)
}

// MarkPaid records the commission payout for a closed period
func (h *PeriodHandler) MarkPaid(c *gin.Context) {
	h.transition(c, h.periodService.MarkPaid)
}

// Calculate recomputes the period's aggregate figures
func (h *PeriodHandler) Calculate(c *gin.Context) {
	h.transition(c, h.periodService.CalculateStats)
}

// Transfer moves the period's unpaid commissions to another period
func (h *PeriodHandler) Transfer(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	periodID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid period ID")
		return
	}

	var req periodapp.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.periodService.TransferUnpaid(c.Request.Context(), actor, periodID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.invalidateStats(c)
	h.Success(c, result)
}

type periodTransition func(ctx context.Context, actor identity.Actor, periodID uuid.UUID) (*periodapp.PeriodResponse, error)

func (h *PeriodHandler) transition(c *gin.Context, fn periodTransition) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	periodID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid period ID")
		return
	}

	p, err := fn(c.Request.Context(), actor, periodID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.invalidateStats(c)
	h.Success(c, p)
}
