package lease

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/property-api/internal/handler"
	"github.com/jwalitptl/property-api/internal/middleware"
	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/permission"
	"github.com/jwalitptl/property-api/internal/service/lease"
)

type Handler struct {
	service lease.LeaseServicer
	guard   handler.Guard
}

func NewHandler(service lease.LeaseServicer, guard handler.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	read := h.guard.RequirePermission(permission.LeasesRead)
	write := h.guard.RequirePermission(permission.LeasesWrite)

	leases := r.Group("/leases")
	{
		leases.GET("", read, h.List)
		leases.POST("", write, h.Create)
		leases.GET("/:id", read, h.Get)
		leases.PATCH("/:id", write, h.Update)
		leases.POST("/:id/activate", write, h.Activate)
		leases.POST("/:id/terminate", write, h.Terminate)
		leases.POST("/:id/expire", write, h.Expire)
	}
}

func (h *Handler) List(c *gin.Context) {
	var filter model.LeaseFilter
	ok := handler.BindFilter(c, &filter,
		handler.QueryID{Name: "tenant_id", Dst: &filter.TenantID},
		handler.QueryID{Name: "property_id", Dst: &filter.PropertyID},
	)
	if !ok {
		return
	}
	leases, err := h.service.List(c.Request.Context(), middleware.OrgID(c), filter)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, leases)
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

func (h *Handler) Activate(c *gin.Context) {
	handler.ByID(c, h.service.Activate)
}

// Terminate accepts an optional reason.
func (h *Handler) Terminate(c *gin.Context) {
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}
	var req model.TerminateLeaseRequest
	if c.Request.ContentLength != 0 && !handler.BindJSON(c, &req) {
		return
	}

	l, err := h.service.Terminate(c.Request.Context(), middleware.OrgID(c), id, req.Reason)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, l)
}

func (h *Handler) Expire(c *gin.Context) {
	handler.ByID(c, h.service.Expire)
}
