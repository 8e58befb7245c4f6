package handler

import (
	"github.com/gin-gonic/gin"

	salesapp "github.com/primtakip/backend/internal/application/sales"
)

// PaymentTypeHandler handles payment type endpoints
type PaymentTypeHandler struct {
	BaseHandler
	paymentTypeService *salesapp.PaymentTypeService
}

// NewPaymentTypeHandler creates a new PaymentTypeHandler
func NewPaymentTypeHandler(paymentTypeService *salesapp.PaymentTypeService) *PaymentTypeHandler {
	return &PaymentTypeHandler{paymentTypeService: paymentTypeService}
}

// RegisterRoutes registers the payment type routes
func (h *PaymentTypeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	types := rg.Group("/payment-types")
	types.GET("", h.List)
	types.POST("", h.Create)
	types.PUT("/:id", h.Update)
	types.DELETE("/:id", h.Deactivate)
}

// List returns payment types ordered for display. Pass include_inactive=true
// to include deactivated ones.
func (h *PaymentTypeHandler) List(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	types, err := h.paymentTypeService.List(c.Request.Context(), includeInactive)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, types)
}

// Create adds a new payment type
func (h *PaymentTypeHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req salesapp.CreatePaymentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	pt, err := h.paymentTypeService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, pt)
}

// Update changes a payment type's display fields
func (h *PaymentTypeHandler) Update(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid payment type ID")
		return
	}

	var req salesapp.UpdatePaymentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	pt, err := h.paymentTypeService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, pt)
}

// Deactivate soft-deletes a payment type so existing sales keep their reference
func (h *PaymentTypeHandler) Deactivate(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid payment type ID")
		return
	}

	if err := h.paymentTypeService.Deactivate(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
