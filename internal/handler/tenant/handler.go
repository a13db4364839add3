package tenant

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/property-api/internal/handler"
	"github.com/jwalitptl/property-api/internal/middleware"
	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/permission"
	"github.com/jwalitptl/property-api/internal/service/tenant"
)

type Handler struct {
	service tenant.TenantServicer
	guard   handler.Guard
}

func NewHandler(service tenant.TenantServicer, guard handler.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	read := h.guard.RequirePermission(permission.TenantsRead)
	write := h.guard.RequirePermission(permission.TenantsWrite)

	tenants := r.Group("/tenants")
	{
		tenants.GET("", read, h.List)
		tenants.POST("", write, h.Create)
		tenants.GET("/:id", read, h.Get)
		tenants.PATCH("/:id", write, h.Update)
		tenants.DELETE("/:id", write, h.Delete)
		tenants.PUT("/:id/status", write, h.ChangeStatus)

		portal := tenants.Group("/:id/portal", write)
		portal.POST("/invite", h.InviteToPortal)
		portal.POST("/activate", h.ActivatePortal)
		portal.POST("/disable", h.DisablePortal)
	}
}

func (h *Handler) List(c *gin.Context) {
	var filter model.TenantFilter
	if !handler.BindFilter(c, &filter, handler.QueryID{Name: "property_id", Dst: &filter.PropertyID}) {
		return
	}
	tenants, err := h.service.List(c.Request.Context(), middleware.OrgID(c), filter)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, tenants)
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

	t, err := h.service.ChangeStatus(c.Request.Context(), middleware.OrgID(c), id, model.TenantStatus(req.Status))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, t)
}

func (h *Handler) InviteToPortal(c *gin.Context) {
	handler.ByID(c, h.service.InviteToPortal)
}

func (h *Handler) ActivatePortal(c *gin.Context) {
	handler.ByID(c, h.service.ActivatePortal)
}

func (h *Handler) DisablePortal(c *gin.Context) {
	handler.ByID(c, h.service.DisablePortal)
}
