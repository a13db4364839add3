package calendar

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/property-api/internal/handler"
	"github.com/jwalitptl/property-api/internal/middleware"
	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/permission"
	"github.com/jwalitptl/property-api/internal/service/calendar"
)

type Handler struct {
	service calendar.CalendarServicer
	guard   handler.Guard
}

func NewHandler(service calendar.CalendarServicer, guard handler.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	read := h.guard.RequirePermission(permission.CalendarRead)
	write := h.guard.RequirePermission(permission.CalendarWrite)

	events := r.Group("/calendar/events")
	{
		events.GET("", read, h.List)
		events.POST("", write, h.Create)
		events.GET("/:id", read, h.Get)
		events.PATCH("/:id", write, h.Update)
		events.DELETE("/:id", write, h.Delete)
		events.POST("/:id/complete", write, h.Complete)
		events.POST("/:id/cancel", write, h.Cancel)
	}
}

// List returns events overlapping from/to.
func (h *Handler) List(c *gin.Context) {
	var filter model.CalendarFilter
	if !handler.BindFilter(c, &filter, handler.QueryID{Name: "property_id", Dst: &filter.PropertyID}) {
		return
	}
	events, err := h.service.List(c.Request.Context(), middleware.OrgID(c), filter)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, events)
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

func (h *Handler) Complete(c *gin.Context) {
	handler.ByID(c, h.service.Complete)
}

func (h *Handler) Cancel(c *gin.Context) {
	handler.ByID(c, h.service.Cancel)
}
