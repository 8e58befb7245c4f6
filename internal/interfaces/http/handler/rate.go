package handler

import (
	"github.com/gin-gonic/gin"

	commissionapp "github.com/primtakip/backend/internal/application/commission"
)

// RateHandler handles commission rate endpoints
type RateHandler struct {
	BaseHandler
	rateService *commissionapp.RateService
}

// NewRateHandler creates a new RateHandler
func NewRateHandler(rateService *commissionapp.RateService) *RateHandler {
	return &RateHandler{rateService: rateService}
}

// RegisterRoutes registers the commission rate routes
func (h *RateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rates := rg.Group("/commission/rates")
	rates.GET("/current", h.GetCurrent)
	rates.GET("", h.GetHistory)
	rates.POST("", h.SetRate)
}

// GetCurrent returns the currently active commission rate
func (h *RateHandler) GetCurrent(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	rate, err := h.rateService.GetCurrentRate(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rate)
}

// GetHistory returns all rates, newest first
func (h *RateHandler) GetHistory(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	history, err := h.rateService.GetHistory(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, history)
}

// SetRate activates a new commission rate, retiring the previous one
func (h *RateHandler) SetRate(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req commissionapp.SetRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	rate, err := h.rateService.SetRate(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, rate)
}
