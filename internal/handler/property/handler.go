package property

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/property-api/internal/handler"
	"github.com/jwalitptl/property-api/internal/middleware"
	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/permission"
	"github.com/jwalitptl/property-api/internal/service/property"
)

type Handler struct {
	service property.PropertyServicer
	guard   handler.Guard
}

func NewHandler(service property.PropertyServicer, guard handler.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	read := h.guard.RequirePermission(permission.PropertiesRead)
	write := h.guard.RequirePermission(permission.PropertiesWrite)

	properties := r.Group("/properties")
	{
		properties.GET("", read, h.List)
		properties.POST("", write, h.Create)
		properties.GET("/:id", read, h.Get)
		properties.PATCH("/:id", write, h.Update)
		properties.POST("/:id/archive", write, h.Archive)
		properties.DELETE("/:id", h.guard.RequirePermission(permission.PropertiesDelete), h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	var filter model.PropertyFilter
	if !handler.BindFilter(c, &filter) {
		return
	}
	properties, err := h.service.List(c.Request.Context(), middleware.OrgID(c), filter)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, properties)
}

// Create takes the property and, optionally, its initial units.
func (h *Handler) Create(c *gin.Context) {
	handler.Create(c, h.service.Create)
}

func (h *Handler) Get(c *gin.Context) {
	handler.ByID(c, h.service.Get)
}

func (h *Handler) Update(c *gin.Context) {
	handler.UpdateByID(c, h.service.Update)
}

func (h *Handler) Archive(c *gin.Context) {
	handler.ByID(c, h.service.Archive)
}

func (h *Handler) Delete(c *gin.Context) {
	handler.DeleteByID(c, h.service.Delete)
}
