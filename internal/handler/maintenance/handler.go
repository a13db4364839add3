package maintenance

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/property-api/internal/handler"
	"github.com/jwalitptl/property-api/internal/middleware"
	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/permission"
	"github.com/jwalitptl/property-api/internal/service/maintenance"
)

type Handler struct {
	service maintenance.MaintenanceServicer
	guard   handler.Guard
}

func NewHandler(service maintenance.MaintenanceServicer, guard handler.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	read := h.guard.RequirePermission(permission.MaintenanceRead)
	write := h.guard.RequirePermission(permission.MaintenanceWrite)

	requests := r.Group("/maintenance")
	{
		requests.GET("", read, h.List)
		requests.POST("", write, h.Create)
		requests.GET("/:id", read, h.Get)
		requests.PATCH("/:id", write, h.Update)
		requests.DELETE("/:id", write, h.Delete)
		requests.PUT("/:id/status", write, h.ChangeStatus)
		requests.PUT("/:id/vendor", write, h.AssignVendor)
		requests.POST("/:id/complete", write, h.Complete)
	}
}

func (h *Handler) List(c *gin.Context) {
	var filter model.MaintenanceFilter
	if !handler.BindFilter(c, &filter, handler.QueryID{Name: "property_id", Dst: &filter.PropertyID}) {
		return
	}
	requests, err := h.service.List(c.Request.Context(), middleware.OrgID(c), filter)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, requests)
}

func (h *Handler) Create(c *gin.Context) {
	handler.Create(c, h.service.Create)
}

func (h *Handler) Get(c *gin.Context) {
	handler.ByID(c, h.service.Get)
}

func (h *Handler) Update(c *gin.Context) {
	handler.UpdateByID(c, h.service.Update)
}

func (h *Handler) Delete(c *gin.Context) {
	handler.DeleteByID(c, h.service.Delete)
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}
	var req model.ChangeStatusRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	m, err := h.service.ChangeStatus(c.Request.Context(), middleware.OrgID(c), id, model.MaintenanceStatus(req.Status))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, m)
}

func (h *Handler) AssignVendor(c *gin.Context) {
	handler.UpdateByID(c, h.service.AssignVendor)
}

type completedResponse struct {
	Request *model.MaintenanceRequest `json:"request"`
	Expense *model.Expense            `json:"expense,omitempty"`
}

func (h *Handler) Complete(c *gin.Context) {
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}
	var req model.CompleteMaintenanceRequest
	if c.Request.ContentLength != 0 && !handler.BindJSON(c, &req) {
		return
	}

	m, expense, err := h.service.Complete(c.Request.Context(), middleware.OrgID(c), id, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, completedResponse{Request: m, Expense: expense})
}
