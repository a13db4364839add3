package unit

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/property-api/internal/handler"
	"github.com/jwalitptl/property-api/internal/middleware"
	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/permission"
	"github.com/jwalitptl/property-api/internal/service/unit"
)

type Handler struct {
	service unit.UnitServicer
	guard   handler.Guard
}

func NewHandler(service unit.UnitServicer, guard handler.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	read := h.guard.RequirePermission(permission.UnitsRead)
	write := h.guard.RequirePermission(permission.UnitsWrite)

	units := r.Group("/units")
	{
		units.GET("", read, h.List)
		units.POST("", write, h.Create)
		units.GET("/:id", read, h.Get)
		units.PATCH("/:id", write, h.Update)
		units.DELETE("/:id", write, h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	var filter model.UnitFilter
	if !handler.BindFilter(c, &filter, handler.QueryID{Name: "property_id", Dst: &filter.PropertyID}) {
		return
	}
	units, err := h.service.List(c.Request.Context(), middleware.OrgID(c), filter)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, units)
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
