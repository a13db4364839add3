package payment

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/property-api/internal/handler"
	"github.com/jwalitptl/property-api/internal/middleware"
	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/permission"
	"github.com/jwalitptl/property-api/internal/service/payment"
)

type Handler struct {
	service payment.PaymentServicer
	guard   handler.Guard
}

func NewHandler(service payment.PaymentServicer, guard handler.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	read := h.guard.RequirePermission(permission.PaymentsRead)
	write := h.guard.RequirePermission(permission.PaymentsWrite)

	payments := r.Group("/payments")
	{
		payments.GET("", read, h.List)
		payments.POST("", write, h.Record)
		payments.GET("/stats", read, h.Stats)
		payments.GET("/:id", read, h.Get)
		payments.POST("/:id/refund", write, h.Refund)
	}
}

func (h *Handler) List(c *gin.Context) {
	var filter model.PaymentFilter
	ok := handler.BindFilter(c, &filter,
		handler.QueryID{Name: "tenant_id", Dst: &filter.TenantID},
		handler.QueryID{Name: "lease_id", Dst: &filter.LeaseID},
	)
	if !ok {
		return
	}
	payments, err := h.service.List(c.Request.Context(), middleware.OrgID(c), filter)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, payments)
}

func (h *Handler) Record(c *gin.Context) {
	handler.Create(c, h.service.Record)
}

func (h *Handler) Get(c *gin.Context) {
	handler.ByID(c, h.service.Get)
}

func (h *Handler) Refund(c *gin.Context) {
	handler.ByID(c, h.service.Refund)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), middleware.OrgID(c))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, stats)
}
