package invoice

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/property-api/internal/handler"
	"github.com/jwalitptl/property-api/internal/middleware"
	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/permission"
	"github.com/jwalitptl/property-api/internal/service/invoice"
)

type Handler struct {
	service invoice.InvoiceServicer
	guard   handler.Guard
}

func NewHandler(service invoice.InvoiceServicer, guard handler.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	read := h.guard.RequirePermission(permission.BillingRead)
	write := h.guard.RequirePermission(permission.BillingWrite)

	invoices := r.Group("/invoices")
	{
		invoices.GET("", read, h.List)
		invoices.POST("", write, h.Create)
		invoices.GET("/stats", read, h.Stats)
		invoices.POST("/mark-overdue", write, h.MarkOverdue)
		invoices.GET("/:id", read, h.Get)
		invoices.DELETE("/:id", write, h.Delete)
		invoices.POST("/:id/send", write, h.Send)
		invoices.POST("/:id/view", read, h.MarkViewed)
		invoices.POST("/:id/pay", h.guard.RequirePermission(permission.PaymentsWrite), h.MarkAsPaid)
		invoices.POST("/:id/late-fee", write, h.ApplyLateFee)
		invoices.POST("/:id/cancel", write, h.Cancel)
		invoices.POST("/:id/remind", write, h.SendReminder)
	}
}

func (h *Handler) List(c *gin.Context) {
	var filter model.InvoiceFilter
	ok := handler.BindFilter(c, &filter,
		handler.QueryID{Name: "tenant_id", Dst: &filter.TenantID},
		handler.QueryID{Name: "lease_id", Dst: &filter.LeaseID},
	)
	if !ok {
		return
	}
	invoices, err := h.service.List(c.Request.Context(), middleware.OrgID(c), filter)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, invoices)
}

func (h *Handler) Create(c *gin.Context) {
	handler.Create(c, h.service.Create)
}

func (h *Handler) Get(c *gin.Context) {
	handler.ByID(c, h.service.Get)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), middleware.OrgID(c))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, stats)
}

func (h *Handler) Delete(c *gin.Context) {
	handler.DeleteByID(c, h.service.Delete)
}

func (h *Handler) Send(c *gin.Context) {
	handler.ByID(c, h.service.Send)
}

func (h *Handler) MarkViewed(c *gin.Context) {
	handler.ByID(c, h.service.MarkViewed)
}

type paidResponse struct {
	Invoice *model.Invoice `json:"invoice"`
	Payment *model.Payment `json:"payment"`
}

func (h *Handler) MarkAsPaid(c *gin.Context) {
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}
	var req model.MarkPaidRequest
	if c.Request.ContentLength != 0 && !handler.BindJSON(c, &req) {
		return
	}

	inv, payment, err := h.service.MarkAsPaid(c.Request.Context(), middleware.OrgID(c), id, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, paidResponse{Invoice: inv, Payment: payment})
}

// ApplyLateFee uses the configured default when amount is omitted.
func (h *Handler) ApplyLateFee(c *gin.Context) {
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}
	var req model.LateFeeRequest
	if c.Request.ContentLength != 0 && !handler.BindJSON(c, &req) {
		return
	}

	inv, err := h.service.ApplyLateFee(c.Request.Context(), middleware.OrgID(c), id, req.Amount)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, inv)
}

func (h *Handler) Cancel(c *gin.Context) {
	handler.ByID(c, h.service.Cancel)
}

func (h *Handler) SendReminder(c *gin.Context) {
	handler.ByID(c, h.service.SendReminder)
}

func (h *Handler) MarkOverdue(c *gin.Context) {
	n, err := h.service.MarkOverdue(c.Request.Context(), middleware.OrgID(c))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, gin.H{"marked": n})
}
